package lib

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateFileToken returns 40 random hex characters for naming stored files
func GenerateFileToken() string {
	token := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	return token[:40]
}
