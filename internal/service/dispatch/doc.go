// Package dispatch implements the bulk email fan-out pipeline.
//
// One Dispatch call is a fixed sequence: validate the request, probe
// the transport, then send to every valid recipient concurrently and
// join all outcomes into a single report. The probe is the gate: if
// the transport cannot be reached or authenticated, zero emails go
// out. After the probe succeeds, per-recipient failures accumulate in
// the report and never abort sibling sends.
//
// A dispatch snapshots the transport settings when it starts, so an
// operator saving new credentials mid-batch does not split the batch
// across two configurations.
package dispatch
