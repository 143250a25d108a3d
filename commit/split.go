package commit

// Split partitions git log output into one block per commit. Each block
// starts at a "commit <hash>" line and runs until the next one. Text before
// the first header is dropped.
func Split(log string) []string {
	locs := headerRE.FindAllStringIndex(log, -1)
	if len(locs) == 0 {
		return nil
	}

	blocks := make([]string, len(locs))
	for i, loc := range locs {
		end := len(log)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks[i] = log[loc[0]:end]
	}
	return blocks
}
