// Package telemetry measures the wall time, resident memory and CPU use of a
// pipeline phase and optionally exports the figures as a Prometheus textfile.
// Sampling is best effort: a failed sample is logged and reported as zero.
package telemetry
