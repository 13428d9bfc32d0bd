// Package softdelete holds the soft-delete policy: which entity kinds keep
// their rows on delete, and the ordered rewrite rules that turn deletes into
// updates and hide deleted rows from reads.
package softdelete
