package formcache

import (
	"github.com/formwright/formengine/internal/ports"
)

// registryFile is the on-disk shape of the whole registration set, the
// formengine analogue of the teacher's RegistryFile envelope.
type registryFile struct {
	Version       int                      `json:"version"`
	Registrations []ports.FormRegistration `json:"registrations"`
}

const currentVersion = 1
