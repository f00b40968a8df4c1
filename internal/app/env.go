package app

import (
    "errors"
    "os"
    "strings"

    "github.com/joho/godotenv"
)

// LoadEnvFiles loads one or more dotenv files into the process environment.
// Values override variables that are already set, and later files override
// earlier ones. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
    for _, p := range paths {
        p = strings.TrimSpace(p)
        if p == "" {
            continue
        }
        if err := godotenv.Overload(p); err != nil {
            // Missing files are not fatal; continue to next path
            if errors.Is(err, os.ErrNotExist) {
                continue
            }
            return err
        }
    }
    return nil
}

// SplitList splits a comma-separated flag value, dropping empty items.
func SplitList(s string) []string {
    parts := strings.Split(s, ",")
    list := make([]string, 0, len(parts))
    for _, p := range parts {
        if v := strings.TrimSpace(p); v != "" { list = append(list, v) }
    }
    return list
}
