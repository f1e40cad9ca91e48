// Package savefile decodes the game's save container into a canonical
// document tree.
//
// A save is a sequence of LZ4 block frames, each prefixed with a magic
// word and its compressed/inflated sizes. The inflated frames concatenate
// into one JSON document whose keys are obfuscated; this package only
// reconstructs the tree, leaving key translation to the keymap package.
//
// Decoding is pure and idempotent: the same bytes always produce a
// structurally identical tree, and nothing is written anywhere. A corrupt
// or truncated container fails the whole decode; there is no partial
// recovery at this layer because a damaged frame poisons every byte after
// it.
package savefile
