// Package repository provides a generic repository built on Bun query
// builders: table lifecycle, CRUD, newest-row lookup, counting, pagination,
// transactions and SQL rendering for the bound dialect.
package repository
