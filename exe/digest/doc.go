// Package digest computes content fingerprints for executables.
//
// A Digest is the SHA-1 of a file's full byte stream. It is used purely as an
// identity key: two files with equal digests are treated as byte-identical,
// and nothing is ever read out of the digest itself.
//
// Fingerprinting streams the input through a fixed 64 KiB buffer, so memory
// use does not grow with file size:
//
//	f, _ := os.Open("Borderlands2.exe")
//	d, err := digest.Of(f)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(d) // bc1d695c6fdb3dea491b367f73bbb045c316b32e
//
// Of reads from the current position to EOF and leaves the reader there.
// Callers that need the stream again must seek back to the start first.
package digest
