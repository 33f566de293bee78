// Package urlfile reads crawl target lists from a plain file or from a
// directory of .txt files.
package urlfile

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadFile reads one URL per line; blank lines and #-comments are skipped.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open url file %s", path)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "read url file %s", path)
	}
	return urls, nil
}

// ReadDir concatenates every *.txt file under dir in sorted filename order.
func ReadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read url dir %s", dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var urls []string
	for _, name := range names {
		fileURLs, err := ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		urls = append(urls, fileURLs...)
	}
	return urls, nil
}

// Load resolves the URL list from the configured sources. A directory that
// exists takes precedence over the single-file setting.
func Load(urlsFile, urlsDir string) ([]string, error) {
	if urlsDir != "" {
		if info, err := os.Stat(urlsDir); err == nil && info.IsDir() {
			return ReadDir(urlsDir)
		}
	}
	if urlsFile != "" {
		return ReadFile(urlsFile)
	}
	return nil, eris.New("no URL source configured")
}
