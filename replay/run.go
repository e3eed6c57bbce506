package replay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/domjancik/damage-game/damage"
)

// Run plays a script to completion and returns its tape. The same script on
// the same engine build always produces the same tape; Verify leans on that.
func Run(ctx context.Context, script Script) (*Tape, error) {
	ns, err := normalizeScript(script)
	if err != nil {
		return nil, err
	}

	rec := &recorder{}
	game, err := damage.NewGame(ns.cfg, damage.WithGameID(ns.gameID), damage.WithEventSink(rec))
	if err != nil {
		return nil, scriptErr(-1, -1, "engine_init_failed", "%v", err)
	}
	for _, seat := range ns.seats {
		src := &scriptedSource{betting: seat.betting, affect: seat.affect}
		if err := game.SeatPlayer(seat.seat, seat.playerID, src, seat.opts...); err != nil {
			return nil, scriptErr(seat.seat, -1, "seat_init_failed", "%v", err)
		}
	}

	summary, err := game.Run(ctx)
	if err != nil {
		return nil, scriptErr(-1, -1, "run_failed", "%v", err)
	}
	if rec.err != nil {
		return nil, rec.err
	}

	digest, err := digestEvents(rec.events)
	if err != nil {
		return nil, err
	}
	return &Tape{
		TapeVersion: TapeVersion,
		GameID:      game.GameID(),
		Seed:        game.Seed(),
		Script:      script,
		Summary:     summary,
		Events:      rec.events,
		Digest:      digest,
	}, nil
}

// Verify checks the tape's own digest, then re-runs its script and compares
// the fresh stream against the recorded one. A nil error means the tape is
// reproducible on this build of the engine.
func Verify(ctx context.Context, tape *Tape) error {
	if err := tape.CheckDigest(); err != nil {
		return err
	}
	fresh, err := Run(ctx, tape.Script)
	if err != nil {
		return fmt.Errorf("re-run script: %w", err)
	}
	if fresh.Digest != tape.Digest {
		return fmt.Errorf("%w: tape has %s, re-run produced %s", ErrDigestMismatch, tape.Digest, fresh.Digest)
	}
	return nil
}

// recorder marshals each event once, at emission time, so the tape keeps the
// engine's exact field order.
type recorder struct {
	events []json.RawMessage
	err    error
}

func (r *recorder) Emit(ev damage.Event) {
	if r.err != nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		r.err = fmt.Errorf("encode event %d: %w", ev.Seq, err)
		return
	}
	r.events = append(r.events, json.RawMessage(data))
}

// scriptedSource feeds one seat's queued decisions. Queues are split per
// window so a short betting queue cannot eat affect cues; once a queue runs
// dry the seat plays safe defaults for the rest of the game.
type scriptedSource struct {
	betting []damage.Decision
	affect  []damage.Decision
}

func (s *scriptedSource) Solicit(_ context.Context, req damage.SolicitRequest) (damage.Decision, error) {
	if req.Window == damage.WindowAffect {
		if len(s.affect) > 0 {
			d := s.affect[0]
			s.affect = s.affect[1:]
			return d, nil
		}
		return damage.Decision{Kind: damage.KindNone}, nil
	}
	if len(s.betting) > 0 {
		d := s.betting[0]
		s.betting = s.betting[1:]
		return d, nil
	}
	if req.Bet == req.CurrentHighBet {
		return damage.Decision{Kind: damage.KindCheck}, nil
	}
	return damage.Decision{Kind: damage.KindFold}, nil
}
