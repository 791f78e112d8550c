package main

import (
	"errors"
	"fmt"

	"github.com/jcorbin/mdit/internal/socui"
)

func init() {
	builtinServer("list", serveList,
		"print stream outline listing")
}

func serveList(ctx context, _ *socui.Request, resp *socui.Response) error {
	rc, err := ctx.store.open()
	if errors.Is(err, errStoreNotExists) {
		return fmt.Errorf("%w; run `soc init` to create one", err)
	} else if err != nil {
		return err
	}

	var sc outlineScanner
	sc.Reset(rc)
	n := 0
	for sc.Scan() {
		if !sc.titled {
			continue
		}
		if sc.lastTime().Grain() == 0 {
			continue
		}
		if !sc.toplevel() {
			continue
		}
		n++
		fmt.Fprintf(resp, "%v. %v\n", n, sc.outline)
	}
	if err := sc.Err(); err != nil {
		return err
	}

	return rc.Close()
}
