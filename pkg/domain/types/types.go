package types

// ServiceName identifies this service in logs and health responses
const ServiceName = "herald"

// Version is overwritten at build time via -ldflags
var Version = "dev"
