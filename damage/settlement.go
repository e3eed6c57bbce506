package damage

import "sort"

// handSettlement is the planned outcome of one hand. It is computed at
// showdown and applied to bankrolls during the payout phase.
type handSettlement struct {
	pot      int64
	revealed bool
	winners  []int
	payouts  []PayoutShare
	rankings []HandRanking
	pots     []PotResult
	wonPot   map[int]bool
}

func (s *handSettlement) payload() ShowdownPayload {
	return ShowdownPayload{
		Pot:      s.pot,
		Revealed: s.revealed,
		Winners:  s.winners,
		Payouts:  s.payouts,
		Rankings: s.rankings,
		Pots:     s.pots,
	}
}

// settleLocked evaluates the surviving hands, carves the pot into side pots
// and plans every payout. Money conservation is checked twice: the side pots
// must re-total the collected pot, and the shares must re-total the pots.
func (g *Game) settleLocked() (*handSettlement, error) {
	res := &handSettlement{pot: g.potCollected, wonPot: make(map[int]bool)}

	inHand := make([]*Player, 0, len(g.players))
	for _, p := range g.seatOrder() {
		if p.inHand {
			inHand = append(inHand, p)
		}
	}
	if len(inHand) == 0 {
		return nil, errInvalidState("no hand participants at showdown")
	}

	if len(inHand) == 1 {
		// Everyone else folded. The pot moves uncontested, hands stay hidden.
		w := inHand[0]
		share := PayoutShare{Seat: w.Seat, PlayerID: w.ID, Amount: g.potCollected}
		res.winners = []int{w.Seat}
		res.payouts = []PayoutShare{share}
		res.pots = []PotResult{{
			Amount:   g.potCollected,
			Eligible: []int{w.Seat},
			Winners:  []int{w.Seat},
			Shares:   []PayoutShare{share},
		}}
		res.wonPot[w.Seat] = true
		return res, nil
	}

	res.revealed = true
	scores := make(map[int]HandRank, len(inHand))
	for _, p := range inHand {
		rank, best, err := g.evaluateHandLocked(p)
		if err != nil {
			return nil, err
		}
		scores[p.Seat] = rank
		res.rankings = append(res.rankings, HandRanking{
			Seat:     p.Seat,
			PlayerID: p.ID,
			Category: rank.Category.String(),
			Score:    rank.Score,
			Hand:     p.hand.Strings(),
			Best:     best,
		})
	}

	pots := buildSidePots(g.seatOrder())
	var potSum int64
	for _, sp := range pots {
		potSum += sp.amount
	}
	if potSum != g.potCollected {
		return nil, errInvalidState("side pots total %d, collected %d", potSum, g.potCollected)
	}

	totals := make(map[int]int64)
	for _, sp := range pots {
		pr := g.awardPotLocked(sp, scores)
		res.pots = append(res.pots, pr)
		for _, w := range pr.Winners {
			res.wonPot[w] = true
		}
		for _, sh := range pr.Shares {
			totals[sh.Seat] += sh.Amount
		}
	}

	var paidSum int64
	for seat := range totals {
		res.winners = append(res.winners, seat)
	}
	sort.Ints(res.winners)
	for _, seat := range res.winners {
		res.payouts = append(res.payouts, PayoutShare{
			Seat:     seat,
			PlayerID: g.players[seat].ID,
			Amount:   totals[seat],
		})
		paidSum += totals[seat]
	}
	if paidSum != g.potCollected {
		return nil, errInvalidState("payouts total %d, pot %d", paidSum, g.potCollected)
	}
	return res, nil
}

// evaluateHandLocked scores one player's hand for the configured card style.
// For holdem the returned codes name the best five of the seven cards.
func (g *Game) evaluateHandLocked(p *Player) (HandRank, []string, error) {
	if g.cfg.CardStyle == StyleHoldem {
		if g.community.Count() != 5 {
			return HandRank{}, nil, errInvalidState("community has %d cards at showdown", g.community.Count())
		}
		seven := append(p.hand.Clone(), g.community...)
		rank, picks, err := EvaluateBestOfSeven(seven)
		if err != nil {
			return HandRank{}, nil, err
		}
		best := make([]string, len(picks))
		for i, ix := range picks {
			best[i] = seven[ix].String()
		}
		return rank, best, nil
	}
	rank, err := EvaluateFive(p.hand)
	return rank, nil, err
}

// awardPotLocked splits one side pot among its best eligible hands. The
// indivisible remainder goes to the first winner in remainder order.
func (g *Game) awardPotLocked(sp sidePot, scores map[int]HandRank) PotResult {
	var best HandRank
	for _, seat := range sp.eligible {
		if r := scores[seat]; r.Score > best.Score {
			best = r
		}
	}
	winners := make([]int, 0, len(sp.eligible))
	for _, seat := range sp.eligible {
		if scores[seat].Score == best.Score {
			winners = append(winners, seat)
		}
	}

	ordered := g.remainderOrderLocked(winners)
	share := sp.amount / int64(len(winners))
	rem := sp.amount % int64(len(winners))
	shares := make([]PayoutShare, 0, len(winners))
	for i, seat := range ordered {
		amt := share
		if i == 0 {
			amt += rem
		}
		shares = append(shares, PayoutShare{Seat: seat, PlayerID: g.players[seat].ID, Amount: amt})
	}
	return PotResult{Amount: sp.amount, Eligible: sp.eligible, Winners: winners, Shares: shares}
}

// remainderOrderLocked orders tied winners for remainder assignment:
// clockwise from the dealer by default, or by absolute seat number.
func (g *Game) remainderOrderLocked(winners []int) []int {
	ordered := append([]int(nil), winners...)
	if g.cfg.RemainderSeatRule == RemainderAbsoluteSeat {
		sort.Ints(ordered)
		return ordered
	}
	n := len(g.players)
	dist := func(seat int) int {
		return ((seat-g.dealerSeat-1)%n + n) % n
	}
	sort.Slice(ordered, func(i, j int) bool { return dist(ordered[i]) < dist(ordered[j]) })
	return ordered
}

// creditPayoutsLocked moves the planned shares into bankrolls.
func (g *Game) creditPayoutsLocked(res *handSettlement) {
	for _, sh := range res.payouts {
		g.players[sh.Seat].bankroll += sh.Amount
	}
	g.potCollected = 0
}

// updateLivesLocked applies the life rules after a contested showdown:
// showdown losers burn one life, folders are spared, and a player out of
// lives (or out of chips when configured) leaves the game.
func (g *Game) updateLivesLocked(res *handSettlement) {
	if g.cfg.EnableLives && res.revealed {
		for _, p := range g.seatOrder() {
			if !p.alive {
				continue
			}
			if p.foldedThisHand {
				g.emitLocked(EventFoldSavedLife, FoldSavedLifePayload{
					Seat:     p.Seat,
					PlayerID: p.ID,
					Lives:    p.lives,
				})
				continue
			}
			if !p.inHand || res.wonPot[p.Seat] {
				continue
			}
			p.lives--
			if p.lives <= 0 {
				p.lives = 0
				p.alive = false
				g.emitLocked(EventPlayerEliminated, PlayerEliminatedPayload{
					Seat:           p.Seat,
					PlayerID:       p.ID,
					RemainingLives: 0,
					Reason:         "lives",
				})
				continue
			}
			g.emitLocked(EventLifeLost, LifeLostPayload{
				Seat:           p.Seat,
				PlayerID:       p.ID,
				RemainingLives: p.lives,
			})
		}
	}
	if g.cfg.EliminateOnBankrollZero {
		for _, p := range g.seatOrder() {
			if p.alive && p.bankroll <= 0 {
				p.alive = false
				g.emitLocked(EventPlayerEliminated, PlayerEliminatedPayload{
					Seat:           p.Seat,
					PlayerID:       p.ID,
					RemainingLives: p.lives,
					Reason:         "bankroll",
				})
			}
		}
	}
}
