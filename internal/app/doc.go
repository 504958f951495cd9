// Package app wires the landing page into a mount engine and the
// hot-reload client.
//
// Bootstrap registers stylesheet and page watching, installs a refresh
// callback that redraws the page, and mounts the page into its container:
//
//	h, err := app.Bootstrap(ctx, engine, srv.Client(), app.Options{Container: "app"})
//	if err != nil {
//	    return err
//	}
//	defer h.Unmount()
package app
