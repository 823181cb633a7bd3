// Command bitty runs, serves and checks bitty page documents.
package main

func main() {
	Execute()
}
