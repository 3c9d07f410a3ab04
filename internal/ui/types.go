package ui

import (
	"cmerge/internal/resolver"
)

type fileLoadedMsg struct {
	content string
	err     error
}

type resolveDoneMsg struct {
	outcome resolver.Outcome
}
