// Package mount attaches component roots to named containers.
//
// An Engine owns a set of containers. Mount renders a root once and hands
// back an exclusively owned Handle; the handle is the only way to redraw or
// tear down that container:
//
//	engine := mount.NewEngine(mount.WithLogger(logger))
//	h, err := engine.Mount("app", site.Page.Component())
//	if err != nil {
//	    return err
//	}
//	defer h.Unmount()
//
//	r, err := h.Redraw(ctx)
//	if r.Changed {
//	    // push r.HTML to browsers
//	}
//
// A container holds at most one root. Mounting an occupied container fails
// with ErrAlreadyMounted; after Unmount the container may be mounted again.
//
// Every redraw builds a fresh tree from the root, diffs it against the
// previous one and notifies subscribers only when the diff is non-empty.
package mount
