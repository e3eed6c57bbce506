package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/domjancik/damage-game/damage"
	"github.com/domjancik/damage-game/eventlog"
	"github.com/domjancik/damage-game/npc"
	"github.com/domjancik/damage-game/tournament"
)

func banner() {
	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("D", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("amage", pterm.FgDarkGray.ToStyle()),
	).Render()
}

// printEngineEvent renders one engine event as a feed line. Headers use the
// Info printer, in-hand records print indented, trouble goes to Warning.
func printEngineEvent(ev damage.Event) {
	switch p := ev.Payload.(type) {
	case damage.GameStartedPayload:
		pterm.Info.Printfln("Game %s: %d players, %d hands, seed %d, %s cards",
			p.GameID, p.Players, p.Turns, p.Seed, p.Style)
	case damage.HandStartedPayload:
		pterm.Println()
		pterm.Info.Printfln("Hand %d: dealer seat %d, ante %d, pot %d",
			p.Turn, p.DealerSeat, p.Ante, p.Pot)
	case damage.PhaseChangedPayload:
		pterm.Println(pterm.Gray("  phase " + p.Phase.String()))
	case damage.CommunityDealtPayload:
		pterm.Println(pterm.LightCyan(fmt.Sprintf("  %s: %s", p.Street, strings.Join(p.Cards, " "))))
	case damage.AffectIntentPayload:
		pterm.Println(pterm.LightMagenta(formatAffectIntent(p)))
	case damage.AffectResolvedPayload:
		pterm.Println(pterm.LightMagenta(formatAffectResolved(p)))
	case damage.AffectUnpairedAssistPayload:
		pterm.Println(pterm.LightMagenta(fmt.Sprintf("  seat %d assists seat %d unpaired (%s %+.2f)",
			p.Seat, p.TargetSeat, p.Intent, p.AppliedDelta)))
	case damage.ActionRejectedPayload:
		pterm.Warning.Printfln("seat %d %s rejected: %s", p.Seat, p.PlayerID, p.Reason)
	case damage.ActionResolvedPayload:
		pterm.Println("  " + formatAction(p))
	case damage.FoldSavedLifePayload:
		pterm.Println(pterm.LightGreen(fmt.Sprintf("  seat %d %s folded in time, %d lives left",
			p.Seat, p.PlayerID, p.Lives)))
	case damage.LifeLostPayload:
		pterm.Warning.Printfln("seat %d %s loses a life, %d left", p.Seat, p.PlayerID, p.RemainingLives)
	case damage.PlayerEliminatedPayload:
		pterm.Warning.Printfln("seat %d %s eliminated (%s)", p.Seat, p.PlayerID, p.Reason)
	case damage.ShowdownPayload:
		renderShowdown(p)
	case damage.HandEndedPayload:
		pterm.Println(pterm.Gray("  stacks " + formatStacks(p.Players)))
	case damage.GameEndedPayload:
		renderStandings(p.Standings)
	default:
		if raw, ok := ev.Payload.(json.RawMessage); ok {
			pterm.Println(pterm.Gray(fmt.Sprintf("  %s %s", ev.Type, raw)))
		}
	}
}

func formatAffectIntent(p damage.AffectIntentPayload) string {
	line := fmt.Sprintf("  seat %d %s %s", p.Seat, p.PlayerID, p.Kind)
	if p.Plan != nil {
		line += fmt.Sprintf(" -> seat %d: %s over %s, %s", p.Plan.TargetSeat, p.Plan.Emotional, p.Plan.Channel, p.Plan.Tactic)
	} else if p.Kind == damage.KindAssist || p.Kind == damage.KindGuard {
		line += fmt.Sprintf(" -> seat %d", p.TargetSeat)
	}
	return line
}

func formatAffectResolved(p damage.AffectResolvedPayload) string {
	switch p.Mode {
	case "attack":
		return fmt.Sprintf("  affect: seats %v hit seat %d %s, %s %+.2f (%.1f vs %.1f)",
			p.Attackers, p.TargetSeat, p.TargetID, p.Intent, p.AppliedDelta, p.AttackScore, p.DefenseScore)
	case "guard":
		return fmt.Sprintf("  affect: seat %d %s guarded, attack blunted to %+.2f", p.TargetSeat, p.TargetID, p.AppliedDelta)
	case "self_regulate":
		return fmt.Sprintf("  affect: seat %d %s steadies, stress %+.2f", p.TargetSeat, p.TargetID, p.StressDelta)
	case "direct":
		return fmt.Sprintf("  affect: direct hit on seat %d %s, %s %+.2f", p.TargetSeat, p.TargetID, p.Intent, p.AppliedDelta)
	default:
		return fmt.Sprintf("  affect: %s on seat %d %s", p.Mode, p.TargetSeat, p.TargetID)
	}
}

func formatAction(p damage.ActionResolvedPayload) string {
	var verb string
	switch p.Kind {
	case damage.KindFold:
		verb = "folds"
	case damage.KindCheck:
		verb = "checks"
	case damage.KindCall:
		verb = fmt.Sprintf("calls %d", p.Paid)
	case damage.KindRaise:
		verb = fmt.Sprintf("raises to %d", p.Bet)
	default:
		verb = string(p.Kind)
	}
	line := fmt.Sprintf("seat %d %s %s (pot %d, stack %d)", p.Seat, p.PlayerID, verb, p.Pot, p.Bankroll)
	if p.AllIn {
		line += " " + pterm.LightRed("all in")
	}
	if p.Fallback {
		line += " " + pterm.Gray("[fallback]")
	}
	return line
}

func formatStacks(players []damage.PlayerPublic) string {
	parts := make([]string, 0, len(players))
	for _, p := range players {
		if !p.Alive {
			parts = append(parts, fmt.Sprintf("%s out", p.PlayerID))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d", p.PlayerID, p.Bankroll))
	}
	return strings.Join(parts, ", ")
}

func renderShowdown(p damage.ShowdownPayload) {
	if p.Revealed {
		for _, r := range p.Rankings {
			pterm.Println(pterm.Gray(fmt.Sprintf("  seat %d %s shows %s (%s)",
				r.Seat, r.PlayerID, strings.Join(r.Hand, " "), r.Category)))
		}
	}
	for _, share := range p.Payouts {
		pterm.Success.Printfln("pot %d to seat %d %s", share.Amount, share.Seat, share.PlayerID)
	}
}

func renderStandings(standings []damage.Standing) {
	rows := pterm.TableData{{"Rank", "Seat", "Player", "Lives", "Bankroll"}}
	for _, s := range standings {
		name := s.PlayerID
		if !s.Alive {
			name = pterm.Gray(name)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.Rank),
			fmt.Sprintf("%d", s.Seat),
			name,
			fmt.Sprintf("%d", s.Lives),
			fmt.Sprintf("%d", s.Bankroll),
		})
	}
	pterm.Println()
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// decodePayload unmarshals a stored payload into its typed struct.
func decodePayload[T any](raw json.RawMessage) (T, error) {
	var p T
	if len(raw) == 0 {
		return p, nil
	}
	err := json.Unmarshal(raw, &p)
	return p, err
}

// decodeEnvelope rebuilds a typed engine event from a stored envelope so the
// playback path renders through the same code as the live feed.
func decodeEnvelope(rec eventlog.Envelope) (damage.Event, error) {
	ev := damage.Event{Seq: rec.Seq, Type: rec.Type, Turn: rec.Turn, Phase: rec.Phase}

	var err error
	switch rec.Type {
	case damage.EventGameStarted:
		ev.Payload, err = decodePayload[damage.GameStartedPayload](rec.Payload)
	case damage.EventHandStarted:
		ev.Payload, err = decodePayload[damage.HandStartedPayload](rec.Payload)
	case damage.EventPhaseChanged:
		ev.Payload, err = decodePayload[damage.PhaseChangedPayload](rec.Payload)
	case damage.EventCommunityDealt:
		ev.Payload, err = decodePayload[damage.CommunityDealtPayload](rec.Payload)
	case damage.EventAffectIntent:
		ev.Payload, err = decodePayload[damage.AffectIntentPayload](rec.Payload)
	case damage.EventAffectResolved:
		ev.Payload, err = decodePayload[damage.AffectResolvedPayload](rec.Payload)
	case damage.EventAffectUnpairedAssist:
		ev.Payload, err = decodePayload[damage.AffectUnpairedAssistPayload](rec.Payload)
	case damage.EventActionSubmitted:
		ev.Payload, err = decodePayload[damage.ActionSubmittedPayload](rec.Payload)
	case damage.EventActionRejected:
		ev.Payload, err = decodePayload[damage.ActionRejectedPayload](rec.Payload)
	case damage.EventActionResolved:
		ev.Payload, err = decodePayload[damage.ActionResolvedPayload](rec.Payload)
	case damage.EventFoldSavedLife:
		ev.Payload, err = decodePayload[damage.FoldSavedLifePayload](rec.Payload)
	case damage.EventLifeLost:
		ev.Payload, err = decodePayload[damage.LifeLostPayload](rec.Payload)
	case damage.EventPlayerEliminated:
		ev.Payload, err = decodePayload[damage.PlayerEliminatedPayload](rec.Payload)
	case damage.EventShowdown:
		ev.Payload, err = decodePayload[damage.ShowdownPayload](rec.Payload)
	case damage.EventHandEnded:
		ev.Payload, err = decodePayload[damage.HandEndedPayload](rec.Payload)
	case damage.EventGameEnded:
		ev.Payload, err = decodePayload[damage.GameEndedPayload](rec.Payload)
	default:
		ev.Payload = rec.Payload
	}
	if err != nil {
		return ev, fmt.Errorf("decode %s payload: %w", rec.Type, err)
	}
	return ev, nil
}

func printBracketEvent(ev tournament.Event) {
	switch p := ev.Payload.(type) {
	case tournament.StartedPayload:
		pterm.Info.Printfln("Tournament %s: %d entrants, tables of %d, top %d advance",
			p.TournamentID, p.Entrants, p.SeatFormat, p.AdvancePerTable)
	case tournament.RoundStartedPayload:
		pterm.Println()
		pterm.Info.Printfln("Round %d: %d players, %d tables, ante %d",
			p.Round, len(p.ActivePlayers), p.TableCount, p.Ante)
	case tournament.TableSpawnedPayload:
		pterm.Println(pterm.Gray(fmt.Sprintf("  %s seats %s", p.TableID, strings.Join(p.Players, " "))))
	case tournament.TableResultPayload:
		if p.Bye {
			pterm.Println(pterm.Gray(fmt.Sprintf("  %s: bye for %s", p.TableID, strings.Join(p.Advanced, " "))))
			return
		}
		pterm.Println(pterm.LightGreen(fmt.Sprintf("  %s: %s advance", p.TableID, strings.Join(p.Advanced, " "))))
	case tournament.RoundEndedPayload:
		pterm.Info.Printfln("Round %d done, %d advance", p.Round, len(p.AdvancedPlayers))
	}
}

func renderChampion(runner *tournament.Runner, result *tournament.Result) {
	name := result.Champion
	if persona := runner.Persona(result.Champion); persona != nil {
		name = fmt.Sprintf("%s (%s)", result.Champion, persona.Name)
	}
	box := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1).
		WithTitle(pterm.LightYellow("Champion")).WithTitleTopCenter()
	pterm.Println(box.Sprintf("%s\nafter %d rounds of %s", pterm.LightGreen(name), result.Rounds, result.TournamentID))
}

func renderProfiles() {
	row := make([]pterm.Panel, 0, 2)
	for _, name := range damage.Profiles() {
		cfg, err := damage.LoadProfile(name)
		if err != nil {
			continue
		}
		box := pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2).
			WithTitle(pterm.LightYellow(name)).WithTitleTopCenter()
		row = append(row, pterm.Panel{Data: box.Sprint(profileBody(cfg))})
	}
	pterm.DefaultPanel.WithPanels(pterm.Panels{row}).Render()
}

func profileBody(cfg damage.GameConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "cards %s\n", cfg.CardStyle)
	fmt.Fprintf(&b, "players %d, turns %d\n", cfg.Players, cfg.Turns)
	fmt.Fprintf(&b, "ante %d, min raise %d, bankroll %d", cfg.Ante, cfg.MinRaise, cfg.StartingBankroll)
	if cfg.EnableLives {
		fmt.Fprintf(&b, "\nlives %d", cfg.StartingLives)
	}
	if cfg.EnableAffectPhase {
		b.WriteString("\naffect contest")
		if cfg.EnableDirectEmoterAttacks {
			b.WriteString(" with direct attacks")
		}
	}
	if cfg.EnableBlinds {
		fmt.Fprintf(&b, "\nblinds %d/%d", cfg.SmallBlind, cfg.BigBlind)
	}
	return b.String()
}

func renderCast(registry *npc.PersonaRegistry) {
	rows := pterm.TableData{{"ID", "Name", "Tier", "Aggro", "Tight", "Bluff", "Hostility", "Composure", "Tagline"}}
	for _, p := range registry.All() {
		b := p.Brain
		rows = append(rows, []string{
			p.ID,
			p.Name,
			fmt.Sprintf("%d", p.Tier),
			fmt.Sprintf("%.2f", b.Aggression),
			fmt.Sprintf("%.2f", b.Tightness),
			fmt.Sprintf("%.2f", b.Bluffing),
			fmt.Sprintf("%.2f", b.Hostility),
			fmt.Sprintf("%.2f", b.Composure),
			p.Tagline,
		})
	}
	pterm.Println()
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func shortDigest(digest string) string {
	if len(digest) <= 12 {
		return digest
	}
	return digest[:12]
}

// bracketLog appends tournament events as JSONL next to the engine logs.
// Emit keeps the first write error and drops later events; the command
// reports the degradation after the bracket finishes.
type bracketLog struct {
	f    *os.File
	enc  *json.Encoder
	path string
	err  error
}

func (b *bracketLog) open(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create bracket log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open bracket log: %w", err)
	}
	b.f = f
	b.enc = json.NewEncoder(f)
	b.path = path
	return nil
}

func (b *bracketLog) Emit(ev tournament.Event) {
	if b.enc == nil || b.err != nil {
		return
	}
	if err := b.enc.Encode(ev); err != nil {
		b.err = err
	}
}

func (b *bracketLog) Err() error { return b.err }

func (b *bracketLog) Path() string { return b.path }

func (b *bracketLog) Close() error {
	if b.f == nil {
		return nil
	}
	return b.f.Close()
}
