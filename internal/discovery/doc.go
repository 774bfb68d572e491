// Package discovery finds TPS servers on the local network over mDNS.
//
// The stand-in server started by 'tpsctl mock-server --advertise' registers a
// "_tps._tcp" service; 'tpsctl discover' browses for it and can save what it
// finds as config profiles. Real TPS instances can be made discoverable the
// same way by publishing the service with the TXT records below:
//
//	scheme=https     http or https
//	path=/tps/rest   REST root, informational
//	version=v0.3.0   advertiser version, informational
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	servers, err := scanner.Scan(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, s := range servers {
//	    fmt.Println(s.Instance, s.URL())
//	}
//
// # Network Requirements
//
// Discovery needs multicast on the local segment; firewalls must allow mDNS
// (UDP port 5353).
package discovery
