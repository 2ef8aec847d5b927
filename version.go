package statewrap

// Version is the release of the statewrap module. Release builds override it with
// -ldflags "-X github.com/aretw0/statewrap.Version=...".
var Version = "0.1.0"
