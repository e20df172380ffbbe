package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jwebster45206/manor-mystery/pkg/actor"
	"github.com/jwebster45206/manor-mystery/pkg/scenario"
)

type commandKind int

const (
	cmdHelp commandKind = iota
	cmdLook
	cmdMove
	cmdAsk
	cmdInventory
	cmdAccuse
	cmdQuit
)

// command is one parsed line of player input.
type command struct {
	kind     commandKind
	target   string
	question string
}

var errUsage = errors.New("unrecognized command, try /help")

// parseCommand reads a slash command. Plain text is shorthand for asking the
// last person spoken to.
func parseCommand(input string) (command, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return command{kind: cmdAsk, question: input}, nil
	}

	verb, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "/help", "/h":
		return command{kind: cmdHelp}, nil
	case "/look", "/l":
		return command{kind: cmdLook}, nil
	case "/quit", "/q":
		return command{kind: cmdQuit}, nil
	case "/move", "/go":
		if rest == "" {
			return command{}, fmt.Errorf("usage: /move <room>")
		}
		return command{kind: cmdMove, target: rest}, nil
	case "/inv", "/inventory":
		if rest == "" {
			return command{}, fmt.Errorf("usage: /inv <name>")
		}
		return command{kind: cmdInventory, target: rest}, nil
	case "/accuse":
		if rest == "" {
			return command{}, fmt.Errorf("usage: /accuse <name>")
		}
		return command{kind: cmdAccuse, target: rest}, nil
	case "/ask":
		target, question, ok := splitTarget(rest)
		if !ok {
			return command{}, fmt.Errorf("usage: /ask <name>: <question>")
		}
		return command{kind: cmdAsk, target: target, question: question}, nil
	default:
		return command{}, errUsage
	}
}

// splitTarget separates "<name>: <question>". A bare id may be followed by a
// space instead of a colon.
func splitTarget(s string) (string, string, bool) {
	if target, question, ok := strings.Cut(s, ":"); ok {
		target, question = strings.TrimSpace(target), strings.TrimSpace(question)
		return target, question, target != "" && question != ""
	}
	first, question, ok := strings.Cut(s, " ")
	if !ok {
		return "", "", false
	}
	if _, err := strconv.Atoi(first); err != nil {
		return "", "", false
	}
	question = strings.TrimSpace(question)
	return first, question, question != ""
}

// findPlayer matches an id, a full name, or a unique name prefix.
func findPlayer(players []actor.Player, query string) (actor.Player, error) {
	query = strings.TrimSpace(query)
	if id, err := strconv.Atoi(query); err == nil {
		for _, p := range players {
			if p.ID == id {
				return p, nil
			}
		}
		return actor.Player{}, fmt.Errorf("nobody here has id %d", id)
	}

	var matches []actor.Player
	for _, p := range players {
		if strings.EqualFold(p.Name, query) {
			return p, nil
		}
		if hasWordPrefix(p.Name, query) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return actor.Player{}, fmt.Errorf("nobody here called %q", query)
	case 1:
		return matches[0], nil
	default:
		return actor.Player{}, fmt.Errorf("%q could mean %d people, be more specific", query, len(matches))
	}
}

// findRoom matches a room id, a full name, or a unique name prefix.
func findRoom(rooms []*scenario.Room, query string) (*scenario.Room, error) {
	query = strings.TrimSpace(query)
	if id, err := strconv.Atoi(query); err == nil {
		for _, r := range rooms {
			if r.ID == id {
				return r, nil
			}
		}
		return nil, fmt.Errorf("no room with id %d", id)
	}

	var matches []*scenario.Room
	for _, r := range rooms {
		if strings.EqualFold(r.Name, query) {
			return r, nil
		}
		if hasWordPrefix(r.Name, query) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no room called %q", query)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q could mean %d rooms, be more specific", query, len(matches))
	}
}

// hasWordPrefix reports whether any word of name starts with prefix.
func hasWordPrefix(name, prefix string) bool {
	prefix = strings.ToLower(prefix)
	if strings.HasPrefix(strings.ToLower(name), prefix) {
		return true
	}
	for _, word := range strings.Fields(name) {
		if strings.HasPrefix(strings.ToLower(word), prefix) {
			return true
		}
	}
	return false
}
