package titles

import (
	"stagehand/sheet"
)

var cacheHeaders = []string{"URL", "Title", "Channel"}

// Cache is a CSV-backed lookup so re-runs never refetch a link that was
// already resolved. Order of first insertion is preserved on save, which
// keeps the cache file diffable.
type Cache struct {
	path    string
	order   []string
	entries map[string]Info
}

// LoadCache reads an existing cache file; a missing file yields an empty
// cache at that path.
func LoadCache(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]Info)}
	rows, err := sheet.ReadRows(path)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if i == 0 && sheet.IsHeaderRow(row) {
			continue
		}
		if len(row) < 2 || row[0] == "" {
			continue
		}
		info := Info{Title: row[1]}
		if len(row) > 2 {
			info.Channel = row[2]
		}
		if _, ok := c.entries[row[0]]; !ok {
			c.order = append(c.order, row[0])
		}
		c.entries[row[0]] = info
	}
	return c, nil
}

func (c *Cache) Get(link string) (Info, bool) {
	info, ok := c.entries[link]
	return info, ok
}

func (c *Cache) Put(link string, info Info) {
	if _, ok := c.entries[link]; !ok {
		c.order = append(c.order, link)
	}
	c.entries[link] = info
}

func (c *Cache) Len() int { return len(c.entries) }

// Save writes the cache back to its CSV file.
func (c *Cache) Save() error {
	rows := [][]string{append([]string(nil), cacheHeaders...)}
	for _, link := range c.order {
		info := c.entries[link]
		rows = append(rows, []string{link, info.Title, info.Channel})
	}
	return sheet.WriteRows(c.path, rows)
}
