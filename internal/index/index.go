package index

// LexiconIndex defines the interface for lexicon indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type LexiconIndex interface {
	ReplaceFile(f FileRow, lexemes []LexemeRow, refs []Ref) error
	DeleteFile(path string) error
	GetChecksum(path string) (string, error)
	ListFiles(limit, offset int, sort string) ([]FileRow, int, error)
	ListLexemes(limit, offset int) ([]LexemeRow, int, error)
	Lookup(headword string) ([]LexemeRow, error)
	Search(query string, limit int) ([]SearchResult, error)
	Graph() ([]GraphNode, []GraphLink, error)
	Backrefs(target string) ([]string, error)
	AllPaths() (map[string]struct{}, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies LexiconIndex at compile time.
var _ LexiconIndex = (*DB)(nil)
