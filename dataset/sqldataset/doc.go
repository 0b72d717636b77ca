/*
Package sqldataset stores examples on an SQL database table.

The table has one nullable TEXT column per attribute plus one for
Class. Missing values are stored as NULL. Differences between SQL
engines are handled by an Adapter; the sqlite3adapter and pgadapter
subpackages provide them for SQLite3 and PostgreSQL.
*/
package sqldataset
