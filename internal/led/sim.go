package led

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Sim keeps the last frame it was handed, for headless runs and tests.
type Sim struct {
	mu     sync.Mutex
	frames uint64
	last   []byte
}

func NewSim() *Sim {
	return &Sim{}
}

func (s *Sim) Write(frame []byte) error {
	s.mu.Lock()
	s.frames++
	s.last = append(s.last[:0], frame...)
	n := s.frames
	s.mu.Unlock()

	log.Debug().Uint64("frame", n).Int("bytes", len(frame)).Msg("sim frame")
	return nil
}

// Last returns a copy of the most recent frame.
func (s *Sim) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...)
}

// Frames counts Write calls.
func (s *Sim) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func (s *Sim) Close() error { return nil }
