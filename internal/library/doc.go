// Package library implements the local-file side of the locker client: directory
// scanning with depth limits, tag metadata reading, metadata filtering, song
// collection comparison, filename templating, and M3U playlist parsing.
//
// # Scanning
//
// [FindSongs] and [FindPlaylists] walk one or more roots collecting supported
// files, honoring a depth limit (0 walks only the top directory, negative
// means unlimited) and regex exclusion patterns.
//
// # Filtering
//
// A [Filter] holds include and exclude rules of the form (field, pattern).
// Patterns are case-insensitive regular expressions matched against tag
// metadata. Include rules keep matching songs, exclude rules drop them;
// each rule set matches with any-of semantics by default, or all-of when
// the corresponding All flag is set.
//
// # Comparison
//
// [Compare] finds songs in a source collection missing from a destination by
// normalized metadata keys (artist|album|title|track). Normalization strips
// case, track-number decorations, punctuation, redundant whitespace, and a
// leading "the" so that local tags and server records line up.
//
// # Templating
//
// [RenderTemplate] expands %artist%-style patterns into download filepaths,
// replacing filesystem-hostile characters in metadata values.
package library
