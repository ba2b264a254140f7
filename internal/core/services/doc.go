// Package services implements the driving ports: the retrieval
// engine, the context assembler and the ingestion pipeline. Services
// orchestrate domain logic over the driven ports and hold no state
// beyond their injected dependencies.
package services
