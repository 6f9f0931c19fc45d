// Package uuid generates the identifiers the scheduler mints for deployments.
package uuid

import huuid "github.com/hashicorp/go-uuid"

// Generate returns 16 random bytes formatted as a 36-character UUID string
// (no version or variant bits are set). It panics if the platform's
// entropy source is broken: callers are not expected to handle a failure
// that can only indicate a broken kernel RNG.
func Generate() string {
	id, err := huuid.GenerateUUID()
	if err != nil {
		panic("uuid: failed to generate: " + err.Error())
	}
	return id
}
