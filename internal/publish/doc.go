// Package publish turns the landing page into static files and uploads
// them.
//
// Exporter renders the mounted page into index.html and copies the public
// directory next to it. S3Publisher uploads an export to a bucket:
//
//	files, err := publish.NewExporter(cfg, publish.ExportOptions{}).Export(ctx, cfg.OutputPath())
//	client, err := publish.NewS3Client(ctx, cfg.Publish.Region)
//	p, err := publish.NewS3Publisher(client, publish.S3Options{Bucket: cfg.Publish.Bucket})
//	n, err := p.Publish(ctx, cfg.OutputPath(), files)
package publish
