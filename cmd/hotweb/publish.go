package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/hotweb/internal/publish"
)

type publishOptions struct {
	output string
	bucket string
	prefix string
	region string
	dryRun bool
}

func publishCmd(flags *globalFlags) *cobra.Command {
	opts := publishOptions{}

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Export the site and upload it to S3",
		Long: `Export the rendered page and the public directory, then upload
the export to an S3 bucket.

Examples:
  hotweb publish --dry-run
  hotweb publish --bucket=my-site --prefix=www`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, flags, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Export directory (default from hotweb.json)")
	cmd.Flags().StringVar(&opts.bucket, "bucket", "", "S3 bucket (default from hotweb.json)")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "Object key prefix")
	cmd.Flags().StringVar(&opts.region, "region", "", "AWS region")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Export only, do not upload")

	return cmd
}

func runPublish(cmd *cobra.Command, flags *globalFlags, opts publishOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	logger, err := flags.logger()
	if err != nil {
		return err
	}
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}
	if opts.output != "" {
		cfg.Publish.Output = opts.output
	}
	if opts.bucket != "" {
		cfg.Publish.Bucket = opts.bucket
	}
	if opts.prefix != "" {
		cfg.Publish.Prefix = opts.prefix
	}
	if opts.region != "" {
		cfg.Publish.Region = opts.region
	}

	dir := cfg.OutputPath()
	files, err := publish.NewExporter(cfg, publish.ExportOptions{Logger: logger}).Export(ctx, dir)
	if err != nil {
		return err
	}
	success(out, "Exported %d files to %s", len(files), dir)
	if opts.dryRun {
		for _, f := range files {
			info(out, f)
		}
		return nil
	}

	if err := publish.RequireBucket(cfg.Publish.Bucket); err != nil {
		return err
	}
	client, err := publish.NewS3Client(ctx, cfg.Publish.Region)
	if err != nil {
		return err
	}
	p, err := publish.NewS3Publisher(client, publish.S3Options{
		Bucket: cfg.Publish.Bucket,
		Prefix: cfg.Publish.Prefix,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	n, err := p.Publish(ctx, dir, files)
	if err != nil {
		return err
	}
	success(out, "Uploaded %d files to s3://%s/%s", n, cfg.Publish.Bucket, p.Key(""))
	return nil
}
