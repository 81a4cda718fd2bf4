// Package state persists the outcome of the last startup run.
//
// The record is a small JSON file kept next to the local store. It lets
// operators see how the previous launch went without reading logs:
//
//	repo := state.NewFileRepository("/path/to/data/dir")
//
//	prev, err := repo.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	prev.Record(state.State{RunID: id, Stage: "Launched", Launched: true})
//	if err := repo.Save(ctx, prev); err != nil {
//	    return err
//	}
//
// State JSON uses snake_case field names.
package state
