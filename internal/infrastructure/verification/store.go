package verification

import (
	"sync"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/auth"
)

var _ auth.CodeStore = (*Store)(nil)

// Store guarda códigos de verificación en memoria con vencimiento.
// Un proceso único basta para este flujo: el código vive minutos y
// reenviarse es barato si el proceso se reinicia.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	done    chan struct{}
}

type entry struct {
	code      string
	expiresAt time.Time
}

// NewStore crea el almacén y arranca la limpieza periódica.
func NewStore() *Store {
	s := &Store{
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Put registra (o reemplaza) el código vigente para un email.
func (s *Store) Put(email, code string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = entry{code: code, expiresAt: time.Now().Add(ttl)}
}

// Consume valida el código y lo elimina. Un código expirado o ya usado no vale.
func (s *Store) Consume(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[email]
	if !ok || time.Now().After(e.expiresAt) || e.code != code {
		return false
	}
	delete(s.entries, email)
	return true
}

// Close detiene la limpieza periódica.
func (s *Store) Close() {
	close(s.done)
}

func (s *Store) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for email, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, email)
				}
			}
			s.mu.Unlock()
		}
	}
}
