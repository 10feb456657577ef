package statemachine

import (
	"fmt"
	"strings"

	"aiqr-api/models"
)

// Actors allowed to move an invitation
const (
	ActorVendor = "vendor"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.InvitationStatus
	To    models.InvitationStatus
	Actor string
}

// validTransitions is the authoritative invitation lifecycle. REDEEMED is terminal.
var validTransitions = []Transition{
	// Vendor redeems the passkey at registration
	{From: models.InvitationUnused, To: models.InvitationRedeemed, Actor: ActorVendor},
}

type transitionKey struct {
	From  models.InvitationStatus
	To    models.InvitationStatus
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.InvitationStatus) []models.InvitationStatus {
	var nexts []models.InvitationStatus
	seen := map[models.InvitationStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// SourcesFor lists the states actor may move into to. Compare-and-swap
// callers use it as the status predicate so the store enforces the lifecycle.
func SourcesFor(to models.InvitationStatus, actor string) []models.InvitationStatus {
	var froms []models.InvitationStatus
	for _, t := range validTransitions {
		if t.To == to && t.Actor == actor {
			froms = append(froms, t.From)
		}
	}
	return froms
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.InvitationStatus, actor string) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("invalid transition: %s -> %s is not allowed for actor %q. Valid transitions from %s are: %s",
		from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(status models.InvitationStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
