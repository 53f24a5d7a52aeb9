// Package decision turns a recognized hand into a table action and a bet
// size expressed as a fraction of the stack.
//
// Hands are ranked on the conventional 1 (royal flush) to 7462 scale, built
// from the evaluator in github.com/paulhankin/poker. Before the flop a fixed
// table of starting hands applies, on the flop and turn a Monte Carlo equity
// estimate against one random hand, and on the river the made hand itself.
package decision
