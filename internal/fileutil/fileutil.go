package fileutil

import "os"

// OwnerReadWrite is the owner read/write only file permission mode. No
// writer in this module currently uses it.
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the world-readable file permission mode used for
// generated debug artifacts (rngschema.DumpYAMLToFile).
const ReadableByAll os.FileMode = 0o644
