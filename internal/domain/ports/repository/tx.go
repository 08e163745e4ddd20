package repository

// Tx is an optional, infra-defined execution handle (e.g. pgx.Tx for Postgres).
// Repositories MUST accept a nil Tx and fall back to their pool.
type Tx interface{}

var NoTX Tx
