package project

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Standard project layout. Every pipeline step reads and writes inside one
// of these folders, so the whole run stays portable.
const (
	DataDirName        = "01_data"
	VideoDirName       = "02_video"
	ImageDirName       = "03_img"
	PlaceholderDirName = "04_placeholder"
	ChannelDirName     = "05_channel-name"
	StockDirName       = "06_stock"

	metaFileName = "project.toml"
)

var subdirs = []string{
	DataDirName, VideoDirName, ImageDirName,
	PlaceholderDirName, ChannelDirName, StockDirName,
}

// Meta is the cached spreadsheet description stored in 01_data/project.toml.
type Meta struct {
	SpreadsheetID string            `toml:"spreadsheet_id"`
	Title         string            `toml:"title"`
	CachedAt      string            `toml:"cached_at"`
	DefaultSheet  string            `toml:"default_sheet"`
	Worksheets    map[string]string `toml:"worksheets"`
}

// Context is one project directory with its standard subfolders.
type Context struct {
	Root           string
	DataDir        string
	VideoDir       string
	ImageDir       string
	PlaceholderDir string
	ChannelDir     string
	StockDir       string
	Meta           Meta
}

// BaseDir is where projects live unless an explicit path is given.
// STAGEHAND_BASE overrides the default for tests and odd setups.
func BaseDir() string {
	if base := strings.TrimSpace(os.Getenv("STAGEHAND_BASE")); base != "" {
		return base
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "stagehand-projects"
	}
	return filepath.Join(home, "Stagehand")
}

var (
	illegalFSChars = regexp.MustCompile(`[\\/:*?"<>|\n\r\t]`)
	repeatedMarks  = regexp.MustCompile(`_+`)
)

// SanitizeName makes a spreadsheet title safe as a directory name.
func SanitizeName(value string) string {
	cleaned := illegalFSChars.ReplaceAllString(strings.TrimSpace(value), "_")
	cleaned = repeatedMarks.ReplaceAllString(cleaned, "_")
	cleaned = strings.Trim(cleaned, "._")
	if cleaned == "" {
		return "untitled_sheet"
	}
	return cleaned
}

func contextFor(root string) *Context {
	return &Context{
		Root:           root,
		DataDir:        filepath.Join(root, DataDirName),
		VideoDir:       filepath.Join(root, VideoDirName),
		ImageDir:       filepath.Join(root, ImageDirName),
		PlaceholderDir: filepath.Join(root, PlaceholderDirName),
		ChannelDir:     filepath.Join(root, ChannelDirName),
		StockDir:       filepath.Join(root, StockDirName),
	}
}

// Init creates the project layout for a spreadsheet title and records it in
// the base index as the most recent project.
func Init(title, spreadsheetID string) (*Context, error) {
	safe := SanitizeName(title)
	root := filepath.Join(BaseDir(), safe)

	for _, name := range subdirs {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %v", name, err)
		}
	}

	ctx := contextFor(root)
	ctx.Meta = loadMeta(root)
	ctx.Meta.Title = title
	if spreadsheetID != "" {
		ctx.Meta.SpreadsheetID = spreadsheetID
	}
	ctx.Meta.CachedAt = time.Now().Format("2006-01-02 15:04:05")
	if ctx.Meta.Worksheets == nil {
		ctx.Meta.Worksheets = map[string]string{}
	}
	if err := ctx.SaveMeta(); err != nil {
		return nil, err
	}
	if err := rememberProject(ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Resolve opens an existing project. An empty name means the last project
// used; otherwise the name may be a direct path or a folder under BaseDir.
func Resolve(name string) (*Context, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		root, err := lastUsedRoot()
		if err != nil {
			return nil, err
		}
		return open(root)
	}

	if info, err := os.Stat(name); err == nil && info.IsDir() {
		return open(name)
	}
	root := filepath.Join(BaseDir(), name)
	if info, err := os.Stat(root); err == nil && info.IsDir() {
		return open(root)
	}
	return nil, fmt.Errorf("project folder not found: %s", root)
}

func open(root string) (*Context, error) {
	ctx := contextFor(root)
	ctx.Meta = loadMeta(root)
	if ctx.Meta.Title == "" {
		ctx.Meta.Title = filepath.Base(root)
	}
	return ctx, nil
}

func metaPath(root string) string {
	return filepath.Join(root, DataDirName, metaFileName)
}

func loadMeta(root string) Meta {
	var meta Meta
	data, err := os.ReadFile(metaPath(root))
	if err != nil {
		return meta
	}
	// A corrupt meta file degrades to defaults instead of blocking the run.
	_ = toml.Unmarshal(data, &meta)
	return meta
}

// SaveMeta persists the project metadata into 01_data/project.toml.
func (c *Context) SaveMeta() error {
	data, err := toml.Marshal(c.Meta)
	if err != nil {
		return fmt.Errorf("encoding project meta: %v", err)
	}
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(metaPath(c.Root), data, 0o644)
}

// CSVPath resolves the local CSV for a worksheet name: the recorded mapping
// first, then the sanitized default, then any file with that prefix.
func (c *Context) CSVPath(sheetName string) (string, error) {
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		return "", fmt.Errorf("empty worksheet name")
	}

	if filename, ok := c.Meta.Worksheets[sheetName]; ok && filename != "" {
		candidate := filepath.Join(c.DataDir, filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	fallback := filepath.Join(c.DataDir, SanitizeName(sheetName)+".csv")
	if _, err := os.Stat(fallback); err == nil {
		return fallback, nil
	}

	matches, err := filepath.Glob(filepath.Join(c.DataDir, SanitizeName(sheetName)+"*.csv"))
	if err == nil && len(matches) > 0 {
		sort.Strings(matches)
		return matches[0], nil
	}

	// Not cached yet: hand back the default location for writers.
	return fallback, nil
}

// RegisterWorksheet records which CSV file backs a worksheet name.
func (c *Context) RegisterWorksheet(sheetName, filename string) {
	if c.Meta.Worksheets == nil {
		c.Meta.Worksheets = map[string]string{}
	}
	c.Meta.Worksheets[sheetName] = filename
	if c.Meta.DefaultSheet == "" {
		c.Meta.DefaultSheet = sheetName
	}
}
