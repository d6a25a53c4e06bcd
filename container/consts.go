package container

const (
	cmdPing = "ping"
	cmdConf = "conf"

	initArg = "container_init"

	// PathEnv defines path environment variable for the command
	PathEnv = "PATH=/usr/local/bin:/usr/bin:/bin"

	// container side socket shared as the first extra file
	containerSocketFd = 3

	containerMaxProc = 1

	hostVethPrefix = "veth"
	nsVethPrefix   = "ceth"

	// CgroupPrefix is the parent cgroup of all containers
	CgroupPrefix = "go-container"

	defaultHostName      = "mydocker"
	defaultRootDir       = "./rootfs"
	defaultContainerIP   = "172.17.0.100"
	defaultBridgeName    = "docker0"
	defaultBridgeIP      = "172.17.0.1"
	defaultInterfaceName = "eth0"
	defaultPrefixLen     = 24
	defaultCPUQuota      = 0.5

	// exit status of the init process when the set up or the execve failed
	setupFailureExit = 1
	execFailureExit  = 127
)
