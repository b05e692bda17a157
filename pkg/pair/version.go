package pair

// Version is the current release of the client library.
// The version follows semantic versioning (MAJOR.MINOR.PATCH).
const Version = "0.4.0"
