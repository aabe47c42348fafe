package sqlite

import "github.com/nonibytes/ranch/ranch/storage"

var SQLTemplates = storage.SQL{
	PutExport: `INSERT INTO exports(version, checksum, data) VALUES(?1, ?2, ?3)
		ON CONFLICT(version) DO UPDATE SET checksum=excluded.checksum, data=excluded.data`,
	GetExport:    "SELECT checksum, data FROM exports WHERE version = ?1",
	LatestExport: "SELECT version, checksum, data FROM exports ORDER BY version DESC LIMIT 1",
	ListExports:  "SELECT version, checksum, length(data) FROM exports ORDER BY version DESC",
}
