// Package dspager provides a uniform data source abstraction and a page
// navigator built on top of it.
//
// Overview
//
// dspager defines one contract for two-dimensional data (rows × columns)
// regardless of where it lives:
//   - ArraySource: rows kept in memory as maps keyed by column name.
//   - GORMSource: rows produced by a GORM query, or an already loaded
//     collection of GORM models.
//
// Every source can be iterated, sought, counted, sorted, filtered and
// windowed with an offset and a limit.
//
// Key concepts
//   - DataSource: the contract every backend implements.
//   - Base: the embeddable cursor/offset/limit bookkeeping shared by backends.
//   - AggregatedFiltering: broadcasts one filter to several sources.
//   - Pager: page arithmetic over a cloned DataSource plus a bounded window
//     of page numbers for rendering navigation.
//
// Errors are classified with errors.Is against ErrInvalidArgument,
// ErrDomain, ErrLogic and ErrOutOfRange.
package dspager
