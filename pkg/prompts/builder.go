package prompts

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/manor-mystery/pkg/actor"
	"github.com/jwebster45206/manor-mystery/pkg/chat"
	"github.com/jwebster45206/manor-mystery/pkg/scenario"
)

// Builder constructs the chat messages for one in-character answer using a
// fluent interface.
type Builder struct {
	listener *actor.Player
	location *scenario.Location
	room     *scenario.Room
	nearby   []string
	context  string
	question string
	template Template
}

func New() *Builder {
	return &Builder{
		template: TemplateBasic,
	}
}

// WithListener sets the guest answering the question. The builder keeps its
// own copy.
func (b *Builder) WithListener(p actor.Player) *Builder {
	b.listener = &p
	return b
}

// WithLocation sets the manor and the room the listener is standing in.
func (b *Builder) WithLocation(loc *scenario.Location, room *scenario.Room) *Builder {
	b.location = loc
	b.room = room
	return b
}

// WithNearby sets the names of the other people in the listener's room.
func (b *Builder) WithNearby(names []string) *Builder {
	b.nearby = names
	return b
}

// WithContext sets the formatted prior conversations.
func (b *Builder) WithContext(context string) *Builder {
	b.context = context
	return b
}

func (b *Builder) WithQuestion(question string) *Builder {
	b.question = question
	return b
}

func (b *Builder) WithTemplate(t Template) *Builder {
	if t != "" {
		b.template = t
	}
	return b
}

// Build returns a system message describing the character followed by the
// question as a user message.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if b.listener == nil {
		return nil, fmt.Errorf("listener is required")
	}
	if b.location == nil || b.room == nil {
		return nil, fmt.Errorf("location is required")
	}
	if strings.TrimSpace(b.question) == "" {
		return nil, fmt.Errorf("question is required")
	}

	system, err := b.systemPrompt()
	if err != nil {
		return nil, err
	}

	return []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: system},
		{Role: chat.ChatRoleUser, Content: b.question},
	}, nil
}

func (b *Builder) systemPrompt() (string, error) {
	l := b.listener
	role := RoleInnocent
	if l.Murderer {
		role = RoleMurderer
	}
	nearby := strings.Join(b.nearby, ", ")
	if nearby == "" {
		nearby = "Nobody"
	}

	switch b.template {
	case TemplateBasic:
		return fmt.Sprintf(BasicPromptTemplate,
			l.Name, l.Job, b.location.Name,
			b.location.Description, b.location.Event,
			b.room.Name, b.room.Description,
			role, l.Mood, l.KnownInventoryText(), nearby, l.Suspicion,
			b.context), nil
	case TemplateInventory:
		return fmt.Sprintf(InventoryPromptTemplate,
			l.Name, l.Job, b.location.Name,
			role, l.Mood, l.KnownInventoryText(), l.Suspicion,
			b.context), nil
	case TemplateLocationAware:
		return fmt.Sprintf(LocationPromptTemplate,
			l.Name, b.room.Name, b.location.Name,
			b.room.Description, b.room.Type, nearby,
			role, l.Job,
			b.context), nil
	case TemplateHighSuspicion:
		return fmt.Sprintf(HighSuspicionPromptTemplate,
			l.Name, l.Suspicion, role, l.Mood,
			b.context), nil
	default:
		return "", fmt.Errorf("unknown template %q", b.template)
	}
}
