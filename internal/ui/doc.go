// Package ui renders the output of the one-shot tpsctl commands: header and
// result boxes, entry and collection tables, a y/N prompt, and a progress
// display for batch transitions.
//
// Batch commands (enable, disable, approve, ...) go through a Runner, which
// prints the header, one progress line per entry and a closing result box:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:   "Enable Profiles",
//	    Command: "tpsctl enable profiles userKey soKey",
//	    Params:  map[string]string{"Server": "https://tps:8443"},
//	    Items:   []string{"userKey", "soKey"},
//	})
//
//	err := runner.Run(ctx, func(ctx context.Context, id string) (string, error) {
//	    updated, err := client.ChangeStatus(ctx, kind, id, entry.ActionEnable)
//	    if err != nil {
//	        return "", err
//	    }
//	    return updated.Status.String(), nil
//	})
//
// A failed entry does not stop the batch; Run returns the joined errors.
package ui
