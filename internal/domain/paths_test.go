package domain

import "testing"

func TestBuildPathsItemRecord(t *testing.T) {
	t.Parallel()

	rec := Record{Registration: "C20250317-001", Category: "Crime"}
	paths := BuildPaths(rec, "20250317", "/media/noticias_www", "/mnt/dtecflex-site-root")

	wantSelector := "/media/noticias_www/CR/C20250317/C20250317-001*"
	if paths.Selector != wantSelector {
		t.Fatalf("selector = %q, want %q", paths.Selector, wantSelector)
	}

	wantRemote := "/mnt/dtecflex-site-root/CR/C20250317/C20250317-001"
	if paths.RemoteDir != wantRemote {
		t.Fatalf("remote dir = %q, want %q", paths.RemoteDir, wantRemote)
	}
}

func TestBuildPathsDirectoryRecord(t *testing.T) {
	t.Parallel()

	// A registration equal to the partition directory is the batch
	// directory itself; the remote path must not repeat it.
	rec := Record{Registration: "C20250317", Category: "Crime"}
	paths := BuildPaths(rec, "20250317", "/media/noticias_www", "/mnt/dtecflex-site-root")

	wantRemote := "/mnt/dtecflex-site-root/CR/C20250317"
	if paths.RemoteDir != wantRemote {
		t.Fatalf("remote dir = %q, want %q", paths.RemoteDir, wantRemote)
	}
}

func TestPartitionRemoteDir(t *testing.T) {
	t.Parallel()

	dir := PartitionRemoteDir("Ambiental", "20250317", "/mnt/dtecflex-site-root")
	if dir != "/mnt/dtecflex-site-root/SA/A20250317" {
		t.Fatalf("unexpected partition dir: %q", dir)
	}
}
