// Package annoboot runs the Anno application startup sequence.
//
// The sequence waits for the platform to be ready, checks connectivity,
// brings the local store online, clears any cached signed-in user, resolves
// the server endpoint and finally hands the launch configuration to the
// application shell. It runs at most once per [Bootstrapper].
//
// # Basic Usage
//
//	cfg := annoboot.DefaultConfig()
//	cfg.DataDir = "/var/lib/anno"
//
//	b, err := annoboot.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	res, err := b.Run(ctx)
//
// # Collaborators
//
// Every collaborator has a default built from the configuration: a SQLite
// store under DataDir, HTTP probes for connectivity and region, console
// dialog and spinner, and a dry-run shell unless ShellCommand is set. Each
// can be replaced with an [Option] such as [WithShell] or [WithNotifier].
//
// # Event Handling
//
// Implement [EventHandler] and pass it via [WithEventHandler] to observe
// stage changes. Events are delivered synchronously from Run.
package annoboot
