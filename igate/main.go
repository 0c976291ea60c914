// The igate command demonstrates interval gates and the loop diagnostics
// built on them.
package main

import (
	"github.com/donjan/intervalgate/igate/cmd"
)

func main() {
	cmd.Execute()
}
