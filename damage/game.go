package damage

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/domjancik/damage-game/card"
)

// handSeedStride separates the per-hand RNG streams derived from the game seed.
const handSeedStride = 1_000_003

// Game drives one table of the hand resolution engine. All exported methods
// are safe for concurrent use; decision sources are always called without the
// game lock held.
type Game struct {
	cfg    GameConfig
	gameID string
	seed   int64
	deck   []card.Card // parsed DeckOverride, nil when shuffling

	mu sync.Mutex

	players []*Player            // indexed by seat, nil until seated
	nodes   map[int]*playerNode  // ring of alive players, rebuilt per hand

	started bool
	ended   bool

	turn  int
	phase Phase

	dealerSeat int
	curNode    *playerNode

	stock     card.CardList
	community card.CardList

	potCollected    int64
	highBet         int64
	raisedThisRound bool
	needActionCount int

	eventSeq int
	events   []Event
	sinks    []Sink
}

// GameOption customizes a Game at construction time.
type GameOption func(*Game)

// WithEventSink registers a sink that receives every event as it is emitted.
// Sinks are invoked synchronously and must not call back into the game.
func WithEventSink(s Sink) GameOption {
	return func(g *Game) { g.sinks = append(g.sinks, s) }
}

// WithGameID overrides the generated game identifier.
func WithGameID(id string) GameOption {
	return func(g *Game) { g.gameID = id }
}

// NewGame validates cfg and returns a table ready for seating.
func NewGame(cfg GameConfig, opts ...GameOption) (*Game, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		cfg:        cfg,
		seed:       seed,
		players:    make([]*Player, cfg.Players),
		nodes:      make(map[int]*playerNode, cfg.Players),
		dealerSeat: InvalidSeat,
	}
	if len(cfg.DeckOverride) > 0 {
		deck, err := card.ParseAll(cfg.DeckOverride)
		if err != nil {
			return nil, fmt.Errorf("deck override: %w", err)
		}
		g.deck = deck
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.gameID == "" {
		g.gameID = fmt.Sprintf("game_%d", seed)
	}
	return g, nil
}

// GameID returns the table identifier used in solicitations and logs.
func (g *Game) GameID() string { return g.gameID }

// Seed returns the resolved RNG seed for this game.
func (g *Game) Seed() int64 { return g.seed }

// SeatOption tweaks a player's starting disposition.
type SeatOption func(*Player)

// WithWill sets the player's will stat (default 60).
func WithWill(v int) SeatOption { return func(p *Player) { p.will = v } }

// WithSkillAffect sets the player's emotional attack skill (default 55).
func WithSkillAffect(v int) SeatOption { return func(p *Player) { p.skillAffect = v } }

// WithFocus sets the starting focus reserve (default 100).
func WithFocus(v float64) SeatOption { return func(p *Player) { p.focus = v } }

// WithResistance sets the permanent affect resistance bonus.
func WithResistance(v float64) SeatOption { return func(p *Player) { p.resistanceBonus = v } }

// SeatPlayer places a player at the given seat. All seats must be filled
// before Run.
func (g *Game) SeatPlayer(seat int, playerID string, src DecisionSource, opts ...SeatOption) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return ErrGameStarted
	}
	if seat < 0 || seat >= len(g.players) {
		return ErrSeatOutOfRange
	}
	if g.players[seat] != nil {
		return ErrSeatOccupied
	}
	if src == nil {
		return errInvalidState("seat %d: nil decision source", seat)
	}
	p := &Player{
		ID:          playerID,
		Seat:        seat,
		alive:       true,
		lives:       g.cfg.StartingLives,
		bankroll:    g.cfg.StartingBankroll,
		will:        60,
		skillAffect: 55,
		focus:       100,
		source:      src,
	}
	if !g.cfg.EnableLives {
		p.lives = 0
	}
	for _, opt := range opts {
		opt(p)
	}
	g.players[seat] = p
	return nil
}

// Standing is one row of the final ranking.
type Standing struct {
	Rank     int    `json:"rank"`
	Seat     int    `json:"seat"`
	PlayerID string `json:"player_id"`
	Alive    bool   `json:"alive"`
	Lives    int    `json:"lives"`
	Bankroll int64  `json:"bankroll"`
}

// GameSummary reports the outcome of a completed game.
type GameSummary struct {
	GameID      string     `json:"game_id"`
	Seed        int64      `json:"seed"`
	HandsPlayed int        `json:"hands_played"`
	Standings   []Standing `json:"standings"`
}

// Run plays the configured number of hands and returns the final standings.
// It stops early when fewer than two players remain alive. The context
// cancels the whole game; per-decision timeouts come from the config.
func (g *Game) Run(ctx context.Context) (*GameSummary, error) {
	g.mu.Lock()
	if g.ended {
		g.mu.Unlock()
		return nil, ErrGameEnded
	}
	if g.started {
		g.mu.Unlock()
		return nil, ErrGameStarted
	}
	for seat, p := range g.players {
		if p == nil {
			g.mu.Unlock()
			return nil, errInvalidState("seat %d is empty", seat)
		}
	}
	g.started = true
	g.emitLocked(EventGameStarted, GameStartedPayload{
		GameID:  g.gameID,
		Players: g.cfg.Players,
		Turns:   g.cfg.Turns,
		Seed:    g.seed,
		Style:   g.cfg.CardStyle,
		Seats:   g.publicPlayersLocked(),
	})
	g.mu.Unlock()

	hands := 0
	for turn := 1; turn <= g.cfg.Turns; turn++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g.mu.Lock()
		alive := g.aliveCountLocked()
		g.mu.Unlock()
		if alive < 2 {
			break
		}
		if err := g.playHand(ctx, turn); err != nil {
			return nil, err
		}
		hands++
	}

	g.mu.Lock()
	g.ended = true
	standings := g.standingsLocked()
	g.emitLocked(EventGameEnded, GameEndedPayload{
		HandsPlayed: hands,
		FinalState:  g.publicPlayersLocked(),
		Standings:   standings,
	})
	g.mu.Unlock()

	return &GameSummary{
		GameID:      g.gameID,
		Seed:        g.seed,
		HandsPlayed: hands,
		Standings:   standings,
	}, nil
}

// playHand advances through the full phase cycle for one turn.
func (g *Game) playHand(ctx context.Context, turn int) error {
	g.mu.Lock()
	g.turn = turn
	g.setPhaseLocked(PhaseDeal)
	if err := g.dealLocked(); err != nil {
		g.mu.Unlock()
		return err
	}
	g.setPhaseLocked(PhaseAnte)
	g.collectAntesLocked()
	g.emitLocked(EventHandStarted, HandStartedPayload{
		Turn:       turn,
		DealerSeat: g.dealerSeat,
		Ante:       g.cfg.Ante,
		Pot:        g.potCollected,
		Players:    g.publicPlayersLocked(),
	})
	g.mu.Unlock()

	if g.cfg.EnableAffectPhase {
		g.setPhase(PhaseAffect)
		if err := g.runAffectWindow(ctx); err != nil {
			return err
		}
	}

	g.setPhase(PhaseBetting)
	if err := g.runBetting(ctx); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.setPhaseLocked(PhaseShowdown)
	res, err := g.settleLocked()
	if err != nil {
		return err
	}
	g.emitLocked(EventShowdown, res.payload())
	g.setPhaseLocked(PhasePayout)
	g.creditPayoutsLocked(res)
	g.setPhaseLocked(PhaseLifeUpdate)
	g.updateLivesLocked(res)
	g.setPhaseLocked(PhaseHandEnd)
	g.emitLocked(EventHandEnded, HandEndedPayload{
		Turn:    turn,
		Players: g.publicPlayersLocked(),
	})
	return nil
}

// dealLocked rotates the dealer, rebuilds the ring, shuffles and deals.
func (g *Game) dealLocked() error {
	g.rotateDealerLocked()
	g.rebuildRingLocked()

	for _, p := range g.seatOrder() {
		p.resetForHand()
	}
	g.community.Init(nil)
	g.potCollected = 0

	if g.deck != nil {
		g.stock.Init(g.deck)
	} else {
		rng := rand.New(rand.NewSource(g.seed + int64(g.turn)*handSeedStride))
		g.stock = card.NewShuffled(rng)
	}

	per := 5
	if g.cfg.CardStyle == StyleHoldem {
		per = 2
	}
	need := per * g.aliveCountLocked()
	if g.cfg.CardStyle == StyleHoldem {
		need += 5
	}
	if g.stock.Count() < need {
		return errInvalidState("deck has %d cards, hand needs %d", g.stock.Count(), need)
	}

	// One card at a time around the ring, first seat past the dealer first.
	start := g.nodes[g.dealerSeat].Next
	for i := 0; i < per; i++ {
		start.walkAll(func(cur *playerNode) {
			cur.Player.hand.Add(g.stock.PopCard())
		})
	}
	return nil
}

// rotateDealerLocked moves the button to the next alive seat.
func (g *Game) rotateDealerLocked() {
	n := len(g.players)
	if g.dealerSeat == InvalidSeat {
		for seat := 0; seat < n; seat++ {
			if g.players[seat].alive {
				g.dealerSeat = seat
				return
			}
		}
		return
	}
	for off := 1; off <= n; off++ {
		seat := (g.dealerSeat + off) % n
		if g.players[seat].alive {
			g.dealerSeat = seat
			return
		}
	}
}

// rebuildRingLocked links the alive players into a cyclic list in seat order.
func (g *Game) rebuildRingLocked() {
	g.nodes = make(map[int]*playerNode, len(g.players))
	var first, prev *playerNode
	for _, p := range g.players {
		if p == nil || !p.alive {
			continue
		}
		node := &playerNode{Player: p, Seat: p.Seat}
		g.nodes[p.Seat] = node
		if first == nil {
			first = node
		} else {
			prev.Next = node
		}
		prev = node
	}
	if prev != nil {
		prev.Next = first
	}
	g.curNode = nil
}

// collectAntesLocked takes the ante from every hand participant. Short
// stacks post what they have and are all-in for the hand.
func (g *Game) collectAntesLocked() {
	if g.cfg.Ante <= 0 {
		return
	}
	for _, p := range g.seatOrder() {
		if !p.inHand {
			continue
		}
		p.contribute(g.cfg.Ante)
	}
	g.sweepBetsLocked()
}

// sweepBetsLocked refunds any uncalled excess and moves round bets into the
// hand pot.
func (g *Game) sweepBetsLocked() {
	var maxBet, secondMax int64
	var maxHolder *Player
	maxCount := 0
	for _, p := range g.seatOrder() {
		b := p.bet
		if b > maxBet {
			secondMax = maxBet
			maxBet = b
			maxHolder = p
			maxCount = 1
		} else if b == maxBet && b > 0 {
			maxCount++
		} else if b > secondMax {
			secondMax = b
		}
	}
	if maxCount == 1 && maxBet > secondMax && maxHolder != nil {
		refund := maxBet - secondMax
		maxHolder.bet -= refund
		maxHolder.bankroll += refund
		if maxHolder.allIn && maxHolder.bankroll > 0 {
			maxHolder.allIn = false
		}
	}
	for _, p := range g.seatOrder() {
		if p.bet <= 0 {
			continue
		}
		p.handContrib += p.bet
		g.potCollected += p.bet
		p.bet = 0
	}
	g.highBet = 0
	g.raisedThisRound = false
}

// runBetting plays the betting phase: a single round for draw5, four streets
// with community cards for holdem. Once at most one contender can still act,
// remaining streets are dealt without further betting.
func (g *Game) runBetting(ctx context.Context) error {
	streets := 1
	if g.cfg.CardStyle == StyleHoldem {
		streets = 4
	}
	for street := 0; street < streets; street++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.mu.Lock()
		if g.inHandCountLocked() <= 1 {
			g.mu.Unlock()
			return nil
		}
		if street > 0 {
			g.dealCommunityLocked(street)
		}
		if g.contenderCountLocked() <= 1 {
			g.mu.Unlock()
			continue
		}
		g.beginBettingRoundLocked(street)
		g.mu.Unlock()

		if err := g.runBettingRound(ctx); err != nil {
			return err
		}

		g.mu.Lock()
		g.sweepBetsLocked()
		done := g.inHandCountLocked() <= 1
		g.mu.Unlock()
		if done {
			return nil
		}
	}
	return nil
}

var holdemStreets = [4]string{"", "flop", "turn", "river"}

func (g *Game) dealCommunityLocked(street int) {
	n := 1
	if street == 1 {
		n = 3
	}
	cards, ok := g.stock.PopCards(n)
	if !ok {
		return
	}
	g.community.Add(cards...)
	g.emitLocked(EventCommunityDealt, CommunityDealtPayload{
		Street: holdemStreets[street],
		Cards:  card.Codes(cards),
	})
}

// beginBettingRoundLocked resets round state, posts blinds on the opening
// street when enabled, and parks the cursor on the first player to act.
func (g *Game) beginBettingRoundLocked(street int) {
	g.highBet = 0
	g.raisedThisRound = false

	startAfter := g.dealerSeat
	if street == 0 && g.cfg.EnableBlinds {
		startAfter = g.postBlindsLocked()
	}
	g.needActionCount = g.contenderCountLocked()
	g.curNode = g.nextContenderLocked(startAfter)
}

// postBlindsLocked posts the small and big blind as forced opening bets and
// returns the seat the action starts after. Heads-up the dealer posts small.
func (g *Game) postBlindsLocked() int {
	var sb, bb *Player
	if g.inHandCountLocked() == 2 {
		sb = g.players[g.dealerSeat]
		bb = g.nextInHandLocked(g.dealerSeat)
	} else {
		sb = g.nextInHandLocked(g.dealerSeat)
		bb = g.nextInHandLocked(sb.Seat)
	}
	sb.contribute(g.cfg.SmallBlind)
	bb.contribute(g.cfg.BigBlind)
	g.highBet = g.cfg.BigBlind
	return bb.Seat
}

// runBettingRound solicits decisions around the ring until every contender
// has matched the high bet or folded.
func (g *Game) runBettingRound(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.mu.Lock()
		if g.needActionCount <= 0 || g.inHandCountLocked() <= 1 || g.curNode == nil {
			g.mu.Unlock()
			return nil
		}
		p := g.curNode.Player
		if !p.inHand || p.allIn {
			g.curNode = g.nextContenderLocked(p.Seat)
			g.mu.Unlock()
			continue
		}
		g.mu.Unlock()

		dec, fallback := g.solicitChecked(ctx, p, WindowBetting)
		if err := ctx.Err(); err != nil {
			return err
		}

		g.mu.Lock()
		g.applyBettingLocked(p, dec, fallback)
		g.curNode = g.nextContenderLocked(p.Seat)
		g.mu.Unlock()
	}
}

// applyBettingLocked mutates chips and round state for a validated decision
// and emits the resolved action.
func (g *Game) applyBettingLocked(p *Player, dec Decision, fallback bool) {
	var paid int64
	switch dec.Kind {
	case KindFold:
		p.fold()
	case KindCheck:
		// no chips move
	case KindCall:
		paid = p.contribute(g.highBet - p.bet)
	case KindPass:
		if p.exposure > 0 {
			p.exposure--
		}
	case KindRaise:
		paid = p.contribute(g.highBet + dec.Amount - p.bet)
		g.highBet += dec.Amount
		g.raisedThisRound = true
		p.tempo++
		if tgt := g.players[dec.Plan.TargetSeat]; tgt != nil {
			tgt.exposure++
		}
	}
	if dec.Kind == KindRaise {
		// A raise reopens the round: every other contender owes a response.
		g.needActionCount = g.othersToActLocked(p)
	} else {
		g.needActionCount--
	}
	g.emitLocked(EventActionResolved, ActionResolvedPayload{
		Seat:           p.Seat,
		PlayerID:       p.ID,
		Kind:           dec.Kind,
		Amount:         dec.Amount,
		Paid:           paid,
		Pot:            g.potCollected + g.roundBetsLocked(),
		CurrentHighBet: g.highBet,
		Bankroll:       p.bankroll,
		Bet:            p.bet,
		AllIn:          p.allIn,
		Fallback:       fallback,
	})
	if dec.Kind == KindRaise && g.cfg.EnableDirectEmoterAttacks && dec.Plan != nil {
		g.applyDirectNudge(p, dec.Plan, dec.Amount)
	}
}

// runAffectWindow gathers one affect decision from every alive player
// concurrently, then validates and resolves them in seat order.
func (g *Game) runAffectWindow(ctx context.Context) error {
	g.mu.Lock()
	order := g.aliveSeatsLocked()
	reqs := make([]SolicitRequest, len(order))
	for i, seat := range order {
		reqs[i] = g.solicitRequestLocked(g.players[seat], WindowAffect)
	}
	g.mu.Unlock()

	type outcome struct {
		dec Decision
		err error
	}
	results := make([]outcome, len(order))
	var wg sync.WaitGroup
	for i := range order {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := g.askSource(ctx, g.players[order[i]], reqs[i])
			results[i] = outcome{dec: d, err: err}
		}(i)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	subs := make([]affectSubmission, 0, len(order))
	for i, seat := range order {
		p := g.players[seat]
		dec, _ := g.vetDecision(ctx, p, WindowAffect, results[i].dec, results[i].err)
		subs = append(subs, affectSubmission{seat: seat, decision: dec})
	}

	g.mu.Lock()
	g.resolveAffectRound(subs)
	g.mu.Unlock()
	return nil
}

// solicitChecked asks the player's source for a decision and validates it,
// allowing one corrective retry before coercing the safe fallback. The
// returned bool reports whether the fallback was substituted.
func (g *Game) solicitChecked(ctx context.Context, p *Player, win Window) (Decision, bool) {
	g.mu.Lock()
	req := g.solicitRequestLocked(p, win)
	g.mu.Unlock()

	dec, err := g.askSource(ctx, p, req)
	return g.vetDecision(ctx, p, win, dec, err)
}

// vetDecision validates a solicited decision, emitting rejection events and
// granting one re-solicit before substituting the fallback. The bool reports
// whether the fallback was coerced.
func (g *Game) vetDecision(ctx context.Context, p *Player, win Window, dec Decision, srcErr error) (Decision, bool) {
	for attempt := 0; ; attempt++ {
		finalTry := attempt >= 1
		var rej *RejectionError
		if srcErr != nil {
			rej = reject(p.Seat, RejectSourceFailure, srcErr.Error())
		} else {
			g.mu.Lock()
			table := g.tableStateLocked(win, p.Seat)
			facts := g.playerFactsLocked(p)
			g.mu.Unlock()
			rej = ValidateDecision(table, facts, dec)
		}
		if rej == nil {
			g.mu.Lock()
			g.emitLocked(EventActionSubmitted, ActionSubmittedPayload{
				Seat:     p.Seat,
				PlayerID: p.ID,
				Window:   win.String(),
				Action:   dec,
			})
			g.mu.Unlock()
			return dec, false
		}

		g.mu.Lock()
		p.exposure++
		g.emitLocked(EventActionRejected, ActionRejectedPayload{
			Seat:     p.Seat,
			PlayerID: p.ID,
			Reason:   rej.Reason,
			Detail:   rej.Detail,
			Final:    finalTry,
		})
		var fb Decision
		if finalTry {
			fb = fallbackDecision(win, g.tableStateLocked(win, p.Seat), g.playerFactsLocked(p))
		}
		req := g.solicitRequestLocked(p, win)
		g.mu.Unlock()

		if finalTry {
			return fb, true
		}
		dec, srcErr = g.askSource(ctx, p, req)
	}
}

// fallbackDecision is the minimal-risk legal action substituted after
// repeated invalid submissions.
func fallbackDecision(win Window, t TableState, pf PlayerFacts) Decision {
	if win == WindowAffect {
		return Decision{Kind: KindNone}
	}
	if pf.Bet == t.HighBet {
		return Decision{Kind: KindCheck}
	}
	return Decision{Kind: KindFold}
}

// askSource invokes the player's decision source under the configured
// per-decision deadline.
func (g *Game) askSource(ctx context.Context, p *Player, req SolicitRequest) (Decision, error) {
	if g.cfg.DecisionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.DecisionTimeout)
		defer cancel()
	}
	return p.source.Solicit(ctx, req)
}

func (g *Game) solicitRequestLocked(p *Player, win Window) SolicitRequest {
	req := SolicitRequest{
		GameID:         g.gameID,
		Seat:           p.Seat,
		PlayerID:       p.ID,
		Turn:           g.turn,
		Phase:          g.phase,
		Window:         win,
		Pot:            g.potCollected + g.roundBetsLocked(),
		CurrentHighBet: g.highBet,
		MinRaiseDelta:  g.cfg.MinRaise,
		Bet:            p.bet,
		Bankroll:       p.bankroll,
		Hand:           append([]card.Card(nil), p.hand...),
		Community:      append([]card.Card(nil), g.community...),
		Emotions:       p.emotions,
		Focus:          p.focus,
		Stress:         p.stress,
		Table:          g.seatViewsLocked(),
	}
	if win == WindowBetting {
		req.LegalKinds = g.legalBettingKindsLocked(p)
	} else {
		req.LegalKinds = []DecisionKind{KindAttack, KindAssist, KindGuard, KindSelfRegulate, KindNone}
	}
	return req
}

func (g *Game) legalBettingKindsLocked(p *Player) []DecisionKind {
	kinds := []DecisionKind{KindFold}
	if p.bet == g.highBet {
		kinds = append(kinds, KindCheck)
		if !g.raisedThisRound {
			kinds = append(kinds, KindPass)
		}
	} else {
		kinds = append(kinds, KindCall)
	}
	if p.bankroll >= g.highBet+g.cfg.MinRaise-p.bet {
		kinds = append(kinds, KindRaise)
	}
	return kinds
}

func (g *Game) tableStateLocked(win Window, turnSeat int) TableState {
	return TableState{
		Window:          win,
		TurnSeat:        turnSeat,
		HighBet:         g.highBet,
		MinRaiseDelta:   g.cfg.MinRaise,
		RaisedThisRound: g.raisedThisRound,
		AliveSeats:      g.aliveSeatsLocked(),
	}
}

func (g *Game) playerFactsLocked(p *Player) PlayerFacts {
	return PlayerFacts{
		Seat:     p.Seat,
		Bankroll: p.bankroll,
		Bet:      p.bet,
		InHand:   p.inHand,
		AllIn:    p.allIn,
		Alive:    p.alive,
	}
}

// setPhase marks a phase transition and emits the boundary event.
func (g *Game) setPhase(phase Phase) {
	g.mu.Lock()
	g.setPhaseLocked(phase)
	g.mu.Unlock()
}

func (g *Game) setPhaseLocked(phase Phase) {
	g.phase = phase
	g.emitLocked(EventPhaseChanged, PhaseChangedPayload{Turn: g.turn, Phase: phase})
}

// emitLocked stamps and records an event, then forwards it to every sink.
// Callers hold g.mu.
func (g *Game) emitLocked(t EventType, payload any) {
	g.eventSeq++
	ev := Event{
		Seq:     g.eventSeq,
		Type:    t,
		Turn:    g.turn,
		Phase:   g.phase,
		Payload: payload,
	}
	g.events = append(g.events, ev)
	for _, s := range g.sinks {
		s.Emit(ev)
	}
}

// emit is the short form used by resolution helpers. Callers hold g.mu.
func (g *Game) emit(t EventType, payload any) {
	g.emitLocked(t, payload)
}

// Events returns a copy of everything emitted so far.
func (g *Game) Events() []Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Event, len(g.events))
	copy(out, g.events)
	return out
}

// seatOrder returns the seated players in ascending seat order.
func (g *Game) seatOrder() []*Player {
	out := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (g *Game) aliveSeatsLocked() []int {
	seats := make([]int, 0, len(g.players))
	for _, p := range g.players {
		if p != nil && p.alive {
			seats = append(seats, p.Seat)
		}
	}
	return seats
}

func (g *Game) aliveCountLocked() int {
	n := 0
	for _, p := range g.players {
		if p != nil && p.alive {
			n++
		}
	}
	return n
}

func (g *Game) inHandCountLocked() int {
	n := 0
	for _, p := range g.players {
		if p != nil && p.inHand {
			n++
		}
	}
	return n
}

// contenderCountLocked counts players who can still put chips in.
func (g *Game) contenderCountLocked() int {
	n := 0
	for _, p := range g.players {
		if p != nil && p.inHand && !p.allIn {
			n++
		}
	}
	return n
}

// othersToActLocked counts contenders other than p.
func (g *Game) othersToActLocked(p *Player) int {
	n := 0
	for _, q := range g.players {
		if q != nil && q != p && q.inHand && !q.allIn {
			n++
		}
	}
	return n
}

func (g *Game) roundBetsLocked() int64 {
	var sum int64
	for _, p := range g.players {
		if p != nil {
			sum += p.bet
		}
	}
	return sum
}

// nextContenderLocked walks the ring from the seat after `seat` to the next
// player who can act, or nil when none remains.
func (g *Game) nextContenderLocked(seat int) *playerNode {
	node, ok := g.nodes[seat]
	if !ok {
		return nil
	}
	return node.Next.walkOnce(func(n *playerNode) bool {
		return n != node && n.Player.inHand && !n.Player.allIn
	})
}

// nextInHandLocked returns the first hand participant after the seat.
func (g *Game) nextInHandLocked(seat int) *Player {
	node := g.nodes[seat]
	hit := node.Next.walkOnce(func(n *playerNode) bool {
		return n != node && n.Player.inHand
	})
	if hit == nil {
		return node.Player
	}
	return hit.Player
}

func (g *Game) publicPlayersLocked() []PlayerPublic {
	out := make([]PlayerPublic, 0, len(g.players))
	for _, p := range g.players {
		if p == nil {
			continue
		}
		out = append(out, PlayerPublic{
			Seat:     p.Seat,
			PlayerID: p.ID,
			Alive:    p.alive,
			Lives:    p.lives,
			Bankroll: p.bankroll,
			Tempo:    p.tempo,
			Exposure: p.exposure,
			Emotions: p.emotions,
		})
	}
	return out
}

func (g *Game) seatViewsLocked() []SeatView {
	out := make([]SeatView, 0, len(g.players))
	for _, p := range g.players {
		if p == nil {
			continue
		}
		out = append(out, SeatView{
			Seat:     p.Seat,
			PlayerID: p.ID,
			Alive:    p.alive,
			Lives:    p.lives,
			Bankroll: p.bankroll,
			Bet:      p.bet,
			InHand:   p.inHand,
			AllIn:    p.allIn,
			Tempo:    p.tempo,
			Exposure: p.exposure,
		})
	}
	return out
}

// standingsLocked ranks players by survival, then lives, then bankroll.
func (g *Game) standingsLocked() []Standing {
	rows := make([]Standing, 0, len(g.players))
	for _, p := range g.players {
		if p == nil {
			continue
		}
		rows = append(rows, Standing{
			Seat:     p.Seat,
			PlayerID: p.ID,
			Alive:    p.alive,
			Lives:    p.lives,
			Bankroll: p.bankroll,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Alive != b.Alive {
			return a.Alive
		}
		if a.Lives != b.Lives {
			return a.Lives > b.Lives
		}
		if a.Bankroll != b.Bankroll {
			return a.Bankroll > b.Bankroll
		}
		return a.Seat < b.Seat
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
