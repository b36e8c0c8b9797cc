// Package game runs multi-way poker hands at a table of up to eight seats.
//
// A Table seats players, each backed by an ActionProvider, and plays one hand
// per PlayHand call: blinds and antes, betting rounds, community cards and a
// showdown that splits the main pot and every side pot. The Pot ledger tracks
// side pots as slices ordered from the main pot outwards.
//
// # Basic Usage
//
//	table, _ := game.NewTable(game.HoldemProfile(1, 2))
//	_ = table.Sit(ctx, 0, game.NewPlayer("Alice", 200), alice)
//	_ = table.Sit(ctx, 1, game.NewPlayer("Bob", 200), bob)
//	suspended, err := table.PlayHand(ctx)
//
// # Suspend and Resume
//
// A provider may answer Suspend. PlayHand then returns true with the table
// parked at that decision. Snapshot captures the parked state, Restore builds
// a new table from it, and after Attach re-binds providers the next PlayHand
// asks the same seat again.
//
// # Events
//
// Every state change is published to subscribed Listeners in order, each
// with a human-readable status line such as "Bob raises to 6.". The table's
// HandHistory records those lines and hands the finished hand to a
// HandHistoryWriter.
package game
