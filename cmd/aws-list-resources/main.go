// aws-list-resources - account-wide AWS resource inventory through the
// Cloud Control API.
package main

func main() {
	Execute()
}
