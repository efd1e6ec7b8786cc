package state

import (
	"time"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		// stand-in for activity photo which could not be prepared
		Placeholder: []byte(`<svg viewBox="0 0 400 300" xmlns="http://www.w3.org/2000/svg">
  <rect x="0" y="0" width="400" height="300" fill="#ecf0f1"/>
  <rect x="130" y="105" width="140" height="95" rx="12" fill="none" stroke="#7f8c8d" stroke-width="6"/>
  <path d="M165 105 L180 85 H220 L235 105" fill="none" stroke="#7f8c8d" stroke-width="6"/>
  <circle cx="200" cy="152" r="28" fill="none" stroke="#7f8c8d" stroke-width="6"/>
  <circle cx="248" cy="122" r="5" fill="#7f8c8d"/>
  <path d="M60 250 H340" stroke="#bdc3c7" stroke-width="4"/>
</svg>`),
	}
}
