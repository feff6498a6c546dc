package domain

import "path"

// Paths locates a record's artifacts on both sides of the transfer.
type Paths struct {
	// Selector is a local glob matching every artifact of the record.
	Selector string
	// RemoteDir is the destination directory on the publication host.
	RemoteDir string
}

// BuildPaths derives artifact locations for a record within a run-date
// partition. When REG_NOTICIA equals the partition directory name the
// record is itself a batch directory, so the remote path drops the
// trailing per-record segment.
func BuildPaths(rec Record, date, localBase, remoteBase string) Paths {
	abrev, prefix := ResolveCategory(rec.Category)
	part := prefix + date

	p := Paths{
		Selector:  path.Join(localBase, abrev, part, rec.Registration) + "*",
		RemoteDir: path.Join(remoteBase, abrev, part),
	}
	if rec.Registration != part {
		p.RemoteDir = path.Join(p.RemoteDir, rec.Registration)
	}
	return p
}

// PartitionRemoteDir returns the remote directory of a whole
// (category, date) partition, the unit the reconciler scans.
func PartitionRemoteDir(category, date, remoteBase string) string {
	abrev, prefix := ResolveCategory(category)
	return path.Join(remoteBase, abrev, prefix+date)
}
