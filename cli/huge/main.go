// Command huge is the command-line front end for the distributed,
// content-addressed version-control system implemented by the huge
// module: init, status, add/reset, commit, log, checkout, remotes and
// the fetch/push/pull/clone/send replication verbs.
package main

import "os"

func main() {
	os.Exit(Execute())
}
