// File: lixenwraith/composer/cmd/composer/main.go
package main

func main() {
	Execute()
}
