package cli

import (
	"fmt"
	"io"
)

func PrintRootHelp(w io.Writer) {
	fmt.Fprintln(w, `ranch - country-aware postal addresses

USAGE
  ranch [global flags] <command> [args]

GLOBAL FLAGS
  --backend dir|sqlite|postgres|redis   (env RANCH_BACKEND, default dir)
  --dir <path>                          (env RANCH_EXPORT_DIR)
  --sqlite-path <dir|file.db>           (env RANCH_SQLITE_PATH)
  --sqlite-driver sqlite|sqlite3        (env RANCH_SQLITE_DRIVER)
  --pg-dsn <dsn>                        (env RANCH_PG_DSN)
  --pg-schema <name>                    (env RANCH_PG_SCHEMA)
  --redis-addr <host:port>              (env RANCH_REDIS_ADDR)
  --redis-password <pw>                 (env RANCH_REDIS_PASSWORD)
  --redis-db <n>                        (env RANCH_REDIS_DB)
  --redis-prefix <prefix>               (env RANCH_REDIS_PREFIX)
  --format pretty|json
  --log-level debug|info|warn|error     (env LOG_LEVEL)

COMMANDS
  import -f <export.json> [--version <RFC3339>]
  exports
  countries
  fields   [--set field=value ...]
  format   --set field=value ...
  validate --set field=value ...

Fields are named (country, admin_area, city, dependent_locality,
street_address, organisation, name, postal_code, sorting_code) or given by
their format code (S, C, D, A, O, N, Z, X).`)
}
