// Package harness runs scripted Clue games against the deduction engine.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: self_observed_card
//	description: "Self suggests and player 2 shows rope"
//	deck: decks/small.cue        # optional, relative to this file
//	setup:
//	  players: 3
//	  self: 1
//	  hand: [white, plum, pipe, wrench, billiard, lounge]
//	steps:
//	  - turn: {suggester: 1, suggest: [green, rope, hall], responder: 2, seen: rope}
//	  - turn: {suggester: 2, suggest: [scarlet, knife, study], responder: none}
//	  - pass: 3
//	  - correct: {player: 3, lacks: study}
//	    expect: ok                 # ok | invalid | contradiction
//	assertions:
//	  - type: known
//	    player: 2
//	    cards: [rope]
//	  - type: turn
//	    number: 1
//	    resolved: true
//	    revealed: rope
//
// # Assertion Types
//
//   - known: the player is known to hold every listed card
//   - lacks: the player can no longer hold any listed card
//   - possible: the player's possibles are exactly the listed cards
//   - accusation: the deduced solution cards are exactly the listed cards
//   - ready: whether the engine is ready to accuse
//   - turn: resolution, revealed card and candidates of one turn
//   - contradiction: the contradiction kind standing after the last step
//
// # Determinism
//
// Every step is followed by propagation and appended to a fresh in-memory
// store under a fixed game ID. After the last step the harness resumes a
// second engine from the store and fails the scenario unless both engines
// have the same fingerprint. Snapshot renders the trace as canonical JSON so
// golden files stay byte-identical across runs.
package harness
