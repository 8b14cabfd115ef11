package naming

import "fmt"

func Bucket(component string) string {
	return fmt.Sprintf("%s-charts", component)
}

func StoragePrincipal(component string) string {
	return fmt.Sprintf("%s-chartmuseum", component)
}

func StoragePolicy(component string) string {
	return fmt.Sprintf("%s-charts-rw", component)
}

func CredentialsSecret(component string) string {
	return fmt.Sprintf("%s-storage-creds", component)
}

func Deployment(component string) string {
	return fmt.Sprintf("%s-chartmuseum", component)
}

func Service(component string) string {
	return fmt.Sprintf("%s-chartmuseum", component)
}
