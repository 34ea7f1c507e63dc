package gateway

// Operations used by the client.
var (
	opRequestMagicLink = Operation{
		Name: "RequestMagicLink",
		Query: `mutation RequestMagicLink($input: RequestMagicLinkInput!) {
  requestMagicLink(input: $input)
}`,
	}

	opLoginWithMagicLink = Operation{
		Name: "LoginWithMagicLink",
		Query: `mutation LoginWithMagicLink($input: LoginWithMagicLinkInput!) {
  loginWithMagicLink(input: $input) {
    token
    user {
      id
      email
      role
    }
  }
}`,
	}

	opMe = Operation{
		Name: "Me",
		Query: `query Me {
  me {
    id
    email
    role
  }
}`,
	}

	opCreateWorkspace = Operation{
		Name: "CreateWorkspace",
		Query: `mutation CreateWorkspace($input: CreateWorkspaceInput!) {
  createWorkspace(input: $input) {
    id
    name
    ownerId
  }
}`,
	}

	opMyWorkspaces = Operation{
		Name: "MyWorkspaces",
		Query: `query MyWorkspaces {
  myWorkspaces {
    id
    name
  }
}`,
	}
)
