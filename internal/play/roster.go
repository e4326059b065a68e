package play

import (
	"sort"

	"trivia-play/internal/domain"
)

// Roster is the live set of participants attached to a session, keyed by
// participant id. Arrival order is preserved so that score sorting can break
// ties stably.
type Roster struct {
	order []string
	byID  map[string]*domain.Participant
}

func NewRoster() *Roster {
	return &Roster{byID: make(map[string]*domain.Participant)}
}

// Upsert adds a participant or overwrites an existing entry with the same id.
// The initial REST snapshot and later JOIN frames can race; last writer wins,
// so a JOIN arriving after the fetch refreshes the entry in place.
func (r *Roster) Upsert(p domain.Participant) {
	if existing, ok := r.byID[p.ID]; ok {
		*existing = p
		return
	}
	r.order = append(r.order, p.ID)
	r.byID[p.ID] = &p
}

// Remove deletes the named participant; unknown ids are a no-op.
func (r *Roster) Remove(id string) {
	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Roster) Len() int { return len(r.byID) }

// ResetAnswers clears every member's per-question state at question start.
func (r *Roster) ResetAnswers() {
	for _, p := range r.byID {
		p.HasAnswered = false
		p.IsCorrect = false
		p.JoinedLate = false
	}
}

// MarkAnswered flags one member as answered with the claimed correctness.
// Unknown ids are ignored; a participant who joined after the snapshot and
// whose JOIN frame was lost cannot be tracked.
func (r *Roster) MarkAnswered(id string, correct bool) bool {
	p, ok := r.byID[id]
	if !ok {
		return false
	}
	p.HasAnswered = true
	p.IsCorrect = correct
	p.JoinedLate = false
	return true
}

// AllAnswered reports whether every current member has answered. An empty
// roster counts as all-answered; callers only evaluate it on answer and
// departure events, so an idle empty session does not lock questions early.
func (r *Roster) AllAnswered() bool {
	for _, p := range r.byID {
		if !p.HasAnswered {
			return false
		}
	}
	return true
}

// AnsweredCount returns how many members have answered the current question.
func (r *Roster) AnsweredCount() int {
	n := 0
	for _, p := range r.byID {
		if p.HasAnswered {
			n++
		}
	}
	return n
}

// ApplyScores overwrites member scores from the authoritative broadcast.
// Members absent from the map keep their previous score.
func (r *Roster) ApplyScores(scores map[string]int) {
	for id, score := range scores {
		if p, ok := r.byID[id]; ok {
			p.Score = score
		}
	}
}

// Sorted returns the members ordered by descending score; ties keep arrival
// order (stable sort over the arrival sequence).
func (r *Roster) Sorted() []domain.Participant {
	out := make([]domain.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
