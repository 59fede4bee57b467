package index

// UnresolvedLink is a wikilink whose target matches no indexed note, asset,
// or alias.
type UnresolvedLink struct {
	SourcePath string
	Target     string
	Line       int
}

// MissingSection is a resolved link whose #section matches no heading in
// the target note.
type MissingSection struct {
	SourcePath string
	TargetPath string
	Section    string
	Line       int
}

// Report collects vault health findings.
type Report struct {
	Unresolved      []UnresolvedLink
	MissingSections []MissingSection
	Orphans         []string // notes nothing links to
}

func (r *Report) Healthy() bool {
	return len(r.Unresolved) == 0 && len(r.MissingSections) == 0 && len(r.Orphans) == 0
}

// Doctor inspects the indexed vault for broken references.
func (db *DB) Doctor() (*Report, error) {
	report := &Report{}

	var err error
	if report.Unresolved, err = db.unresolvedLinks(); err != nil {
		return nil, err
	}
	if report.MissingSections, err = db.missingSections(); err != nil {
		return nil, err
	}
	if report.Orphans, err = db.orphanNotes(); err != nil {
		return nil, err
	}
	return report, nil
}

func (db *DB) unresolvedLinks() ([]UnresolvedLink, error) {
	rows, err := db.conn.Query(`
		SELECT n.path, l.target, l.line
		FROM links l
		JOIN notes n ON n.id = l.source_id
		WHERE l.target_id IS NULL
		ORDER BY n.path, l.line
	`)
	if err != nil {
		return nil, err
	}

	var results []UnresolvedLink
	for rows.Next() {
		var r UnresolvedLink
		if err := rows.Scan(&r.SourcePath, &r.Target, &r.Line); err != nil {
			_ = rows.Close()
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return results, nil
}

func (db *DB) missingSections() ([]MissingSection, error) {
	rows, err := db.conn.Query(`
		SELECT src.path, tgt.path, l.section, l.line
		FROM links l
		JOIN notes src ON src.id = l.source_id
		JOIN notes tgt ON tgt.id = l.target_id
		WHERE l.section != ''
		  AND tgt.kind = ?
		  AND NOT EXISTS (
			SELECT 1 FROM headings h
			WHERE h.note_id = l.target_id AND lower(h.text) = lower(l.section)
		  )
		ORDER BY src.path, l.line
	`, KindNote)
	if err != nil {
		return nil, err
	}

	var results []MissingSection
	for rows.Next() {
		var r MissingSection
		if err := rows.Scan(&r.SourcePath, &r.TargetPath, &r.Section, &r.Line); err != nil {
			_ = rows.Close()
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return results, nil
}

func (db *DB) orphanNotes() ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT path FROM notes n
		WHERE n.kind = ?
		  AND NOT EXISTS (SELECT 1 FROM links l WHERE l.target_id = n.id)
		ORDER BY path
	`, KindNote)
	if err != nil {
		return nil, err
	}

	var results []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			_ = rows.Close()
			return nil, err
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return results, nil
}
