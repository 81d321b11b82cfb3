// Package engine implements the Clue deduction engine.
//
// The engine tracks, from the point of view of one player ("self"), what every
// opponent is known to hold and might still hold, records each observed turn,
// and propagates strict logical deductions until nothing new can be learned.
//
// ARCHITECTURE:
//
// Single-Writer, Synchronous:
// The engine has no goroutines and no locks. One caller issues RecordTurn,
// Correct and Propagate in sequence. Propagate runs to a fixed point before it
// returns.
//
// Event Flow:
//  1. RecordTurn validates a TurnEvent, seeds the turn-local facts and appends
//     the turn to the history. Non-revealing responders lose the suggested
//     cards from their possibles immediately.
//  2. Correct applies a manual Has/Lacks assertion about a player.
//  3. Propagate repeats passes of three rules until a pass changes nothing:
//     resolve every unresolved turn (most recent first), deduce solution cards
//     per category, and close hands whose size is pinned down.
//
// Neither RecordTurn nor Correct propagates on its own; the caller decides
// when to run Propagate and sees every contradiction it raises.
//
// MONOTONICITY:
//
// Every rule only removes cards from possibles and turn candidates, and only
// adds cards to known hands and the accusation. Rules therefore commute, the
// loop terminates, and calling Propagate again without new input is a no-op.
//
// REPLAY:
//
// Every accepted turn and correction is kept in an ordered event log (see
// State). Replay rebuilds an identical engine from that log; the store package
// persists it so a crashed session can be resumed.
package engine
