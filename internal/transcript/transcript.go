package transcript

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn хранит одну реплику диалога. Image хранит самодостаточный data URL либо пуст.
type Turn struct {
	ID        string
	Role      Role
	Text      string
	Image     string
	CreatedAt time.Time
}

// Store хранит потокобезопасную ленту реплик. Записи только добавляются, не меняются и не удаляются.
type Store struct {
	mu    sync.Mutex
	turns []Turn
}

// New создаёт ленту; greeting, если задан, становится первой репликой ассистента.
func New(greeting string) *Store {
	s := &Store{}
	if greeting != "" {
		s.Append(Turn{ID: "init", Role: RoleAssistant, Text: greeting})
	}
	return s
}

// Append добавляет реплику, проставляя ID и время, если их нет. Возвращает сохранённую копию.
func (s *Store) Append(t Turn) Turn {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	s.mu.Lock()
	s.turns = append(s.turns, t)
	s.mu.Unlock()
	return t
}

// Turns возвращает копию ленты в порядке добавления.
func (s *Store) Turns() []Turn {
	s.mu.Lock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	s.mu.Unlock()
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	l := len(s.turns)
	s.mu.Unlock()
	return l
}

// Last возвращает последнюю реплику.
func (s *Store) Last() (Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.turns) == 0 {
		return Turn{}, false
	}
	return s.turns[len(s.turns)-1], true
}

// Markdown выгружает ленту для сохранения по команде пользователя.
// Картинки заменяются пометкой с MIME-типом, чтобы не раздувать файл base64.
func (s *Store) Markdown() string {
	var b strings.Builder
	b.WriteString("# Math tutor session\n")
	for _, t := range s.Turns() {
		who := "Tutor"
		if t.Role == RoleUser {
			who = "You"
		}
		fmt.Fprintf(&b, "\n## %s (%s)\n\n", who, t.CreatedAt.Format(time.RFC3339))
		if t.Image != "" {
			fmt.Fprintf(&b, "_[attached image: %s]_\n\n", imageKind(t.Image))
		}
		if t.Text != "" {
			b.WriteString(t.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func imageKind(dataURL string) string {
	head, _, ok := strings.Cut(dataURL, ";")
	if !ok {
		return "image"
	}
	return strings.TrimPrefix(head, "data:")
}
