// Package collection holds paginated list state for one kind of entity and
// keeps it in sync with the server across create, update and delete.
//
// Store wraps a Service. FetchList loads a page and remembers the query;
// Create, Update and Delete run the mutation and, only if it succeeds, reload
// the list with the remembered query, so filter, paging and sort survive the
// refresh. Sort state set with SetSort is applied to every query that does
// not name its own sorting.
//
// Like settings.Store, every call takes a sequence number and only the
// latest call commits its result.
package collection
