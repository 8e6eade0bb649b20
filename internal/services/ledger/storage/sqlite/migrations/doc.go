// Package migrations embeds the SQL schema history of the ledger journal.
package migrations
