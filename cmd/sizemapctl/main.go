// Command sizemapctl inspects and validates size-class tables.
package main

func main() {
	execute()
}
