package relay

// chooseFair picks the most under-served contact for requester from the
// currently online clients, excluding requester itself. It is the matcher at
// the heart of the relay: an online, starvation-resistant approximation of
// round-robin that keeps working as clients come and go.
//
// Each candidate carries a running estimate of its selection opportunities
// (selectionRate, a mean of 1/candidate-set-size over every scan it appeared
// in). A candidate's score is the signed deviation of its actual selection
// count from the count that estimate predicts; the minimum score wins, with
// registry insertion order as the deterministic tie-break. A candidate that
// has never been scanned is treated as maximally under-served and beats any
// scored candidate, ties included.
//
// Accounting is updated for every scanned candidate, winner or not. An empty
// candidate set short-circuits before any accounting.
//
// Must be called with s.mu held.
func (s *Session) chooseFair(requester *Client) *Client {
	candidates := make([]*Client, 0, len(s.order))
	for _, c := range s.order {
		if c != requester && c.online() {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	total := float64(len(candidates))
	var (
		best       *Client
		bestScore  float64
		bestUnseen bool
	)
	for _, cand := range candidates {
		unseen := cand.attemptCount == 0
		score := -1.0
		if !unseen {
			expected := cand.selectionRate * float64(cand.attemptCount)
			score = (float64(cand.chosenCount) - expected) / expected
		}

		if best == nil || score < bestScore || (score == bestScore && unseen && !bestUnseen) {
			best = cand
			bestScore = score
			bestUnseen = unseen
		}

		attempts := float64(cand.attemptCount)
		cand.selectionRate = (attempts*cand.selectionRate + 1/total) / (attempts + 1)
		cand.attemptCount++
	}

	best.chosenCount++
	return best
}
