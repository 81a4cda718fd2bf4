// Package ports defines the interfaces (ports) that connect the startup
// sequencer to its collaborators.
//
// Ports are the boundaries between the sequencer and the outside world: the
// device platform, the user interface, the local store, the network and the
// application shell. They say what the sequencer needs without saying how
// those needs are met.
//
// # Port Interfaces
//
//   - [PlatformReady]: Signals that the host platform finished booting
//   - [ConnectivityProbe]: Reports whether a network connection exists
//   - [Notifier]: Shows a blocking message to the user
//   - [ProcessControl]: Terminates the process
//   - [StorageEngine]: Brings the local store online
//   - [SessionStore]: Clears the cached signed-in user
//   - [SettingsStore]: Reads and updates persisted settings
//   - [LoadingIndicator]: Shows and hides a busy indicator
//   - [RegionDetector]: Tells whether the device needs a proxy endpoint
//   - [EndpointConfigurator]: Assigns the default or a proxy endpoint
//   - [AppShell]: Hands control to the application
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The sequencer (internal/app) depends only on these interfaces. Adapters
// (internal/adapters) implement them with SQLite, HTTP, the terminal and
// the file system.
package ports
