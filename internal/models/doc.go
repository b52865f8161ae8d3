// package models defines the data model for the power ranking pipeline.
//
// Track and SongstatsIdentifiers describe a library track and its resolved
// external identity. PlatformStats carries per-platform metrics behind a
// built-once metric registry, so metric names from the category configuration
// resolve to typed field accessors without reflection. CategoryScore,
// PowerRanking and PowerRankingResult are the immutable scoring outputs.
package models
