// Package sink writes extracted journal records to their destinations.
//
// Each destination is an independent Sink. Sinks never share state and one
// sink's failure never prevents another from writing; WriteAll fans out to
// all sinks and reports a per-sink outcome instead of a single error.
//
// Local sinks write timestamped CSV and JSON artifacts. The remote sink
// mirrors an artifact into a date-partitioned HDFS layout,
// <root>/<YYYY>/<MM>/<DD>/<filename>, so downstream batch jobs can pick up
// each day's harvest without listing the whole tree.
package sink
